package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateExpenseRequest struct {
	ProjectID     *snowflake.ID
	CategoryID    *snowflake.ID
	Amount        int64
	Date          time.Time
	PaymentMethod string
	Description   string
	Notes         string
}

type UpdateExpenseRequest struct {
	ProjectID     *snowflake.ID
	CategoryID    *snowflake.ID
	Amount        *int64
	Date          *time.Time
	PaymentMethod *string
	Description   *string
	Notes         *string
}

type ListExpenseRequest struct {
	CategoryID *snowflake.ID
	ProjectID  *snowflake.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}

type CreateCategoryRequest struct {
	Name      string
	Color     string
	SortOrder int
}

type UpdateCategoryRequest struct {
	Name      *string
	Color     *string
	SortOrder *int
}

type Service interface {
	Create(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateExpenseRequest) (Expense, error)
	GetByID(ctx context.Context, id snowflake.ID) (Expense, error)
	List(ctx context.Context, req ListExpenseRequest) ([]Expense, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Duplicate(ctx context.Context, id snowflake.ID) (Expense, error)

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (ExpenseCategory, error)
	UpdateCategory(ctx context.Context, id snowflake.ID, req UpdateCategoryRequest) (ExpenseCategory, error)
	ListCategories(ctx context.Context) ([]ExpenseCategory, error)
	DeleteCategory(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidOwner  = errors.New("invalid_owner")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidDate   = errors.New("invalid_date")
	ErrInvalidName   = errors.New("invalid_name")
	ErrNotFound      = errors.New("not_found")
)
