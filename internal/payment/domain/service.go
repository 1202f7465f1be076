package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type RegisterPaymentRequest struct {
	Amount        int64
	PaidAt        time.Time
	PaymentMethod PaymentMethod
	Notes         string
}

// UpdatePaymentRequest carries partial corrections. A payment can never be
// moved to a different invoice.
type UpdatePaymentRequest struct {
	Amount        *int64
	PaidAt        *time.Time
	PaymentMethod *PaymentMethod
	Notes         *string
}

type Service interface {
	Register(ctx context.Context, invoiceID snowflake.ID, req RegisterPaymentRequest) (Payment, error)
	Update(ctx context.Context, paymentID snowflake.ID, req UpdatePaymentRequest) (Payment, error)
	Delete(ctx context.Context, paymentID snowflake.ID) error
	ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]Payment, error)
}

var (
	ErrInvalidOwner  = errors.New("invalid_owner")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidPaidAt = errors.New("invalid_paid_at")
	ErrInvalidMethod = errors.New("invalid_payment_method")
	ErrNotFound      = errors.New("not_found")
)
