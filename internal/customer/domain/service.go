package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateCustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

type UpdateCustomerRequest struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateCustomerRequest) (Customer, error)
	GetByID(ctx context.Context, id snowflake.ID) (Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidOwner = errors.New("invalid_owner")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
