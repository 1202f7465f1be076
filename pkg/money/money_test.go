package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemAmount(t *testing.T) {
	tests := []struct {
		name     string
		quantity int64
		unit     int64
		hours    int64
		want     int64
	}{
		{"quantity line", 3, 2000, 0, 6000},
		{"hourly line wins over quantity", 1, 5000, 10, 50000},
		{"single unit", 1, 150000, 0, 150000},
		{"zero quantity", 0, 5000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ItemAmount(tt.quantity, tt.unit, tt.hours))
		})
	}
}

func TestUnpaid(t *testing.T) {
	assert.Equal(t, int64(250000), Unpaid(500000, 250000))
	assert.Equal(t, int64(0), Unpaid(500000, 500000))
	// Overpayment never reports a negative balance.
	assert.Equal(t, int64(0), Unpaid(500000, 600000))
}

func TestIsFullyPaid(t *testing.T) {
	assert.False(t, IsFullyPaid(500000, 250000))
	assert.True(t, IsFullyPaid(500000, 500000))
	assert.True(t, IsFullyPaid(500000, 600000))
}

func TestRateGuardsZeroDenominator(t *testing.T) {
	assert.Equal(t, float64(0), Rate(100, 0))
	assert.InDelta(t, 50.0, Rate(250000, 500000), 0.0001)
}

func TestSum(t *testing.T) {
	assert.Equal(t, int64(0), Sum(nil))
	assert.Equal(t, int64(60), Sum([]int64{10, 20, 30}))
}
