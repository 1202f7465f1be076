package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Expense struct {
	ID            snowflake.ID   `gorm:"primaryKey" json:"id"`
	OwnerID       snowflake.ID   `gorm:"not null;index" json:"owner_id"`
	ProjectID     *snowflake.ID  `gorm:"index" json:"project_id,omitempty"`
	CategoryID    *snowflake.ID  `gorm:"index" json:"category_id,omitempty"`
	Amount        int64          `gorm:"not null" json:"amount"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	PaymentMethod string         `gorm:"type:varchar(32)" json:"payment_method,omitempty"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Expense) TableName() string { return "expenses" }

type ExpenseCategory struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	OwnerID   snowflake.ID   `gorm:"not null;index" json:"owner_id"`
	Name      string         `gorm:"not null" json:"name"`
	Color     string         `gorm:"type:varchar(16)" json:"color,omitempty"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ExpenseCategory) TableName() string { return "expense_categories" }
