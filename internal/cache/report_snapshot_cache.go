package cache

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	reportdomain "github.com/solobooks/solobooks/internal/report/domain"
	"github.com/solobooks/solobooks/pkg/period"
)

const (
	defaultSummaryTTL   = 30 * time.Second
	defaultDashboardTTL = 30 * time.Second
)

// ReportSnapshotCache stores recently computed report aggregates. Ledger
// mutations invalidate the owner's entries, so a hit always reflects every
// committed write; the TTL only bounds memory for owners that stop reading.
type ReportSnapshotCache interface {
	GetSummary(ownerID snowflake.ID, month period.Month) (reportdomain.MonthlySummary, bool)
	SetSummary(ownerID snowflake.ID, month period.Month, summary reportdomain.MonthlySummary)
	GetDashboard(ownerID snowflake.ID, month period.Month) (reportdomain.Dashboard, bool)
	SetDashboard(ownerID snowflake.ID, month period.Month, dashboard reportdomain.Dashboard)
	Invalidate(ownerID snowflake.ID)
}

type reportSnapshotCache struct {
	summaries    Cache[reportdomain.MonthlySummary]
	dashboards   Cache[reportdomain.Dashboard]
	summaryTTL   time.Duration
	dashboardTTL time.Duration
}

// NewReportSnapshotCache returns an in-memory cache tuned for dashboard reads.
func NewReportSnapshotCache() ReportSnapshotCache {
	return &reportSnapshotCache{
		summaries:    NewTTLCache[reportdomain.MonthlySummary](),
		dashboards:   NewTTLCache[reportdomain.Dashboard](),
		summaryTTL:   defaultSummaryTTL,
		dashboardTTL: defaultDashboardTTL,
	}
}

func (c *reportSnapshotCache) GetSummary(ownerID snowflake.ID, month period.Month) (reportdomain.MonthlySummary, bool) {
	return c.summaries.Get(cacheKey(ownerID.String(), month.String()))
}

func (c *reportSnapshotCache) SetSummary(ownerID snowflake.ID, month period.Month, summary reportdomain.MonthlySummary) {
	c.summaries.Set(cacheKey(ownerID.String(), month.String()), summary, c.summaryTTL)
}

func (c *reportSnapshotCache) GetDashboard(ownerID snowflake.ID, month period.Month) (reportdomain.Dashboard, bool) {
	return c.dashboards.Get(cacheKey(ownerID.String(), month.String()))
}

func (c *reportSnapshotCache) SetDashboard(ownerID snowflake.ID, month period.Month, dashboard reportdomain.Dashboard) {
	c.dashboards.Set(cacheKey(ownerID.String(), month.String()), dashboard, c.dashboardTTL)
}

// Invalidate drops every cached snapshot for an owner, all months at once. A
// ledger write can move any month's figures, so nothing finer is worth it.
func (c *reportSnapshotCache) Invalidate(ownerID snowflake.ID) {
	prefix := ownerID.String() + "|"
	c.summaries.DeletePrefix(prefix)
	c.dashboards.DeletePrefix(prefix)
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, trimmed)
	}
	return strings.Join(values, "|")
}
