package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the invoice persistence surface. Every lookup is scoped by
// owner; a row belonging to another owner is reported as absent, never as
// forbidden. Methods take the handle explicitly so callers can pass an open
// transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListInvoiceRequest) ([]*Invoice, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error

	// ReplaceItems deletes every current line of the invoice and inserts the
	// given ones. Items are cascade-owned, so the delete is physical.
	ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, items []InvoiceItem) error

	// UpdatePaidAmount writes the derived paid amount. Status is written only
	// when forceStatus is non-nil; recomputation alone never moves the state
	// machine.
	UpdatePaidAmount(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, amount int64, forceStatus *InvoiceStatus) error

	UpdateStatus(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, status InvoiceStatus) error
}
