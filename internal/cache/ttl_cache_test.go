package cache

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	reportdomain "github.com/solobooks/solobooks/internal/report/domain"
	"github.com/solobooks/solobooks/pkg/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheRoundTrip(t *testing.T) {
	c := NewTTLCache[int]()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("answer", 42, time.Minute)
	got, ok := c.Get("answer")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	c.Delete("answer")
	_, ok = c.Get("answer")
	assert.False(t, ok)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string]()
	c.Set("ephemeral", "x", time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	_, ok := c.Get("ephemeral")
	assert.False(t, ok)
}

func TestTTLCacheIgnoresNonPositiveTTL(t *testing.T) {
	c := NewTTLCache[string]()
	c.Set("never", "x", 0)

	_, ok := c.Get("never")
	assert.False(t, ok)
}

func TestReportSnapshotCacheKeysByOwnerAndMonth(t *testing.T) {
	c := NewReportSnapshotCache()
	month := period.Month{Year: 2026, Month: time.January}
	summary := reportdomain.MonthlySummary{Month: month.String(), Revenue: 1000}

	c.SetSummary(snowflake.ID(1), month, summary)

	got, ok := c.GetSummary(snowflake.ID(1), month)
	require.True(t, ok)
	assert.Equal(t, int64(1000), got.Revenue)

	_, ok = c.GetSummary(snowflake.ID(2), month)
	assert.False(t, ok, "summaries never leak across owners")

	_, ok = c.GetSummary(snowflake.ID(1), month.Prev())
	assert.False(t, ok)
}

func TestReportSnapshotCacheInvalidateDropsOwnerEntries(t *testing.T) {
	c := NewReportSnapshotCache()
	january := period.Month{Year: 2026, Month: time.January}
	december := january.Prev()

	c.SetSummary(snowflake.ID(1), january, reportdomain.MonthlySummary{Revenue: 1000})
	c.SetSummary(snowflake.ID(1), december, reportdomain.MonthlySummary{Revenue: 500})
	c.SetDashboard(snowflake.ID(1), january, reportdomain.Dashboard{})
	c.SetSummary(snowflake.ID(2), january, reportdomain.MonthlySummary{Revenue: 9000})

	c.Invalidate(snowflake.ID(1))

	_, ok := c.GetSummary(snowflake.ID(1), january)
	assert.False(t, ok)
	_, ok = c.GetSummary(snowflake.ID(1), december)
	assert.False(t, ok, "invalidation covers every cached month")
	_, ok = c.GetDashboard(snowflake.ID(1), january)
	assert.False(t, ok)

	got, ok := c.GetSummary(snowflake.ID(2), january)
	require.True(t, ok, "other owners keep their snapshots")
	assert.Equal(t, int64(9000), got.Revenue)
}
