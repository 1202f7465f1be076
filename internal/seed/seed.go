package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	"gorm.io/gorm"
)

type defaultCategory struct {
	Name  string
	Color string
}

var defaultCategories = []defaultCategory{
	{"Travel", "#3b82f6"},
	{"Supplies", "#22c55e"},
	{"Communication", "#f59e0b"},
	{"Software", "#8b5cf6"},
	{"Outsourcing", "#ef4444"},
	{"Entertainment", "#ec4899"},
	{"Books & Research", "#14b8a6"},
	{"Other", "#64748b"},
}

// EnsureDefaultExpenseCategories seeds the starter category set for an owner
// that has none yet. Existing categories are left untouched.
func EnsureDefaultExpenseCategories(db *gorm.DB, ownerID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if ownerID == 0 {
		return errors.New("seed owner id is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.WithContext(ctx).
			Model(&expensedomain.ExpenseCategory{}).
			Where("owner_id = ?", ownerID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for i, c := range defaultCategories {
			category := expensedomain.ExpenseCategory{
				ID:        node.Generate(),
				OwnerID:   snowflake.ID(ownerID),
				Name:      c.Name,
				Color:     c.Color,
				SortOrder: i,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
