package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateProjectRequest struct {
	CustomerID     *snowflake.ID
	Name           string
	Description    string
	ContractType   ContractType
	ContractAmount int64
	HourlyRate     int64
	Status         ProjectStatus
	StartDate      *time.Time
	EndDate        *time.Time
	Notes          string
}

type UpdateProjectRequest struct {
	CustomerID     *snowflake.ID
	Name           *string
	Description    *string
	ContractType   *ContractType
	ContractAmount *int64
	HourlyRate     *int64
	Status         *ProjectStatus
	StartDate      *time.Time
	EndDate        *time.Time
	Notes          *string
}

type ListProjectRequest struct {
	Status     *ProjectStatus
	CustomerID *snowflake.ID
}

type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (Project, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateProjectRequest) (Project, error)
	GetByID(ctx context.Context, id snowflake.ID) (Project, error)
	List(ctx context.Context, req ListProjectRequest) ([]Project, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Duplicate(ctx context.Context, id snowflake.ID) (Project, error)
}

var (
	ErrInvalidOwner        = errors.New("invalid_owner")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidContractType = errors.New("invalid_contract_type")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrNotFound            = errors.New("not_found")
)
