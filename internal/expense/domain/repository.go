package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, expense *Expense) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, req ListExpenseRequest) ([]*Expense, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error

	InsertCategory(ctx context.Context, db *gorm.DB, category *ExpenseCategory) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*ExpenseCategory, error)
	ListCategories(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*ExpenseCategory, error)
	CountCategories(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (int64, error)
	UpdateCategory(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error
	DeleteCategory(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error
}
