package domain

import (
	"context"
	"errors"

	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	"github.com/solobooks/solobooks/pkg/period"
)

// Service is the read side. Every operation is side-effect free and safe to
// run concurrently with mutations and with other reports.
type Service interface {
	MonthlySummary(ctx context.Context, month period.Month) (MonthlySummary, error)
	MonthlyTrend(ctx context.Context, months int) ([]TrendPoint, error)
	ExpenseBreakdown(ctx context.Context, month *period.Month) ([]CategoryBreakdown, error)
	ProjectSales(ctx context.Context, month *period.Month) ([]ProjectSales, error)
	RecentInvoices(ctx context.Context, limit int) ([]invoicedomain.Invoice, error)
	RecentExpenses(ctx context.Context, limit int) ([]expensedomain.Expense, error)
	Dashboard(ctx context.Context, month period.Month) (Dashboard, error)
}

var (
	ErrInvalidOwner  = errors.New("invalid_owner")
	ErrInvalidMonths = errors.New("invalid_months")
	ErrInvalidLimit  = errors.New("invalid_limit")
)
