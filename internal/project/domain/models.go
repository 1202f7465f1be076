package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	StatusActive    ProjectStatus = "ACTIVE"
	StatusCompleted ProjectStatus = "COMPLETED"
	StatusOnHold    ProjectStatus = "ON_HOLD"
)

func ValidStatus(s ProjectStatus) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

type ContractType string

const (
	ContractFixed  ContractType = "FIXED"
	ContractHourly ContractType = "HOURLY"
)

func ValidContractType(t ContractType) bool {
	return t == ContractFixed || t == ContractHourly
}

type Project struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	OwnerID        snowflake.ID   `gorm:"not null;index" json:"owner_id"`
	CustomerID     *snowflake.ID  `gorm:"index" json:"customer_id,omitempty"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`
	ContractType   ContractType   `gorm:"type:varchar(16);not null;default:'FIXED'" json:"contract_type"`
	ContractAmount int64          `gorm:"not null;default:0" json:"contract_amount"`
	HourlyRate     int64          `gorm:"not null;default:0" json:"hourly_rate"`
	Status         ProjectStatus  `gorm:"type:varchar(16);not null;default:'ACTIVE';index" json:"status"`
	StartDate      *time.Time     `json:"start_date,omitempty"`
	EndDate        *time.Time     `json:"end_date,omitempty"`
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
