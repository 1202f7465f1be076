package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the payment persistence surface. Soft-deleted rows are
// invisible to every read, which is what makes paid-amount recomputation
// self-correcting after a reversal.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	FindByInvoiceID(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*Payment, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DeleteAllByInvoiceID(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error

	// TotalPaidAmount sums the live payment set for the invoice.
	TotalPaidAmount(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (int64, error)
}
