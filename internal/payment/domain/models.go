// Package domain contains persistence models for payments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// PaymentMethod enumerates how a payment arrived.
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodCash         PaymentMethod = "CASH"
	MethodOther        PaymentMethod = "OTHER"
)

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodBankTransfer, MethodCreditCard, MethodCash, MethodOther:
		return true
	default:
		return false
	}
}

// Payment records money received against one invoice. Payments are never
// destroyed; corrections update the row and reversals soft-delete it, so the
// derived invoice paid amount is always recomputable from the live set.
type Payment struct {
	ID            snowflake.ID   `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID   `gorm:"not null;index" json:"invoice_id"`
	Amount        int64          `gorm:"not null" json:"amount"`
	PaidAt        time.Time      `gorm:"not null" json:"paid_at"`
	PaymentMethod PaymentMethod  `gorm:"type:text;not null" json:"payment_method"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
