package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	"gorm.io/gorm"
)

// Repository runs the aggregation queries. Windows are half-open [from, to);
// a nil window means all time.
type Repository interface {
	RevenueInWindow(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to time.Time) (int64, error)
	BilledInWindow(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to time.Time) (int64, error)
	ExpensesInWindow(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to time.Time) (int64, error)
	OutstandingBalance(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (int64, error)
	ExpenseBreakdown(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to *time.Time) ([]CategoryBreakdown, error)
	ProjectSales(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to *time.Time) ([]ProjectSales, error)
	RecentInvoices(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, limit int) ([]invoicedomain.Invoice, error)
	RecentExpenses(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, limit int) ([]expensedomain.Expense, error)
}
