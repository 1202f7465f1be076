package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ItemInput is one requested invoice line. Amount is computed by the service,
// never accepted from callers.
type ItemInput struct {
	Description string
	Quantity    int64
	UnitPrice   int64
	Hours       int64
}

type CreateInvoiceRequest struct {
	CustomerID    snowflake.ID
	ProjectID     *snowflake.ID
	InvoiceNumber string
	IssuedAt      time.Time
	DueAt         time.Time
	Notes         string
	Items         []ItemInput
}

// UpdateInvoiceRequest carries partial updates. Nil fields are left
// untouched; a nil Items slice keeps the current lines, a non-nil slice
// replaces them wholesale.
type UpdateInvoiceRequest struct {
	CustomerID    *snowflake.ID
	ProjectID     *snowflake.ID
	InvoiceNumber *string
	Status        *InvoiceStatus
	IssuedAt      *time.Time
	DueAt         *time.Time
	Notes         *string
	Items         []ItemInput
	ItemsProvided bool
}

type ListInvoiceRequest struct {
	Status     *InvoiceStatus
	CustomerID *snowflake.ID
	ProjectID  *snowflake.ID
	IssuedFrom *time.Time
	IssuedTo   *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id snowflake.ID) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	Delete(ctx context.Context, id snowflake.ID) error
	MarkSent(ctx context.Context, id snowflake.ID) (Invoice, error)
	MarkPaid(ctx context.Context, id snowflake.ID) (Invoice, error)
}

var (
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidCustomer      = errors.New("invalid_customer")
	ErrInvalidInvoiceNumber = errors.New("invalid_invoice_number")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidItems         = errors.New("invalid_items")
	ErrInvalidDates         = errors.New("invalid_dates")
	ErrNotFound             = errors.New("not_found")

	// ErrNotDraft is the business rule guarding the DRAFT -> SENT
	// transition: only draft invoices can be sent.
	ErrNotDraft = errors.New("only_draft_invoices_can_be_sent")
)
