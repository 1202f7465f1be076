package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Customer struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	OwnerID   snowflake.ID   `gorm:"not null;index" json:"owner_id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"type:text" json:"email,omitempty"`
	Phone     string         `gorm:"type:text" json:"phone,omitempty"`
	Address   string         `gorm:"type:text" json:"address,omitempty"`
	Notes     string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string { return "customers" }
