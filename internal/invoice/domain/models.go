// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/pkg/money"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusSent  InvoiceStatus = "SENT"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	default:
		return false
	}
}

// Invoice represents a customer invoice. PaidAmount is derived from the
// live payment set and is never written directly by callers; Status changes
// only through the explicit transition operations on the service.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	OwnerID       snowflake.ID      `gorm:"not null;index" json:"owner_id"`
	CustomerID    snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	ProjectID     *snowflake.ID     `gorm:"index" json:"project_id,omitempty"`
	InvoiceNumber string            `gorm:"type:text;not null" json:"invoice_number"`
	Status        InvoiceStatus     `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	IssuedAt      time.Time         `gorm:"not null" json:"issued_at"`
	DueAt         time.Time         `gorm:"not null" json:"due_at"`
	TotalAmount   int64             `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount    int64             `gorm:"not null;default:0" json:"paid_amount"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	Items         []InvoiceItem     `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// IsFullyPaid is a display predicate; it never drives status transitions.
func (i Invoice) IsFullyPaid() bool {
	return money.IsFullyPaid(i.TotalAmount, i.PaidAmount)
}

// UnpaidAmount is the outstanding balance, never negative.
func (i Invoice) UnpaidAmount() int64 {
	return money.Unpaid(i.TotalAmount, i.PaidAmount)
}

// InvoiceItem represents a line on an invoice. Items are owned by their
// invoice and replaced wholesale on edit, so they carry no soft-delete marker.
type InvoiceItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	Description string       `gorm:"type:text" json:"description"`
	Quantity    int64        `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   int64        `gorm:"not null" json:"unit_price"`
	Hours       int64        `gorm:"not null;default:0" json:"hours,omitempty"`
	Amount      int64        `gorm:"not null" json:"amount"`
	SortOrder   int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }
