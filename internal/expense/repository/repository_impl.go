package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/expense/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Create(expense).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*domain.Expense, error) {
	var expense domain.Expense
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, req domain.ListExpenseRequest) ([]*domain.Expense, error) {
	q := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if req.CategoryID != nil {
		q = q.Where("category_id = ?", *req.CategoryID)
	}
	if req.ProjectID != nil {
		q = q.Where("project_id = ?", *req.ProjectID)
	}
	if req.DateFrom != nil {
		q = q.Where("date >= ?", *req.DateFrom)
	}
	if req.DateTo != nil {
		q = q.Where("date < ?", *req.DateTo)
	}

	var expenses []*domain.Expense
	if err := q.Order("date desc, id desc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Expense{}).Error
}

func (r *repo) InsertCategory(ctx context.Context, db *gorm.DB, category *domain.ExpenseCategory) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*domain.ExpenseCategory, error) {
	var category domain.ExpenseCategory
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *repo) ListCategories(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*domain.ExpenseCategory, error) {
	var categories []*domain.ExpenseCategory
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("sort_order asc, id asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) CountCategories(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.ExpenseCategory{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func (r *repo) UpdateCategory(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.ExpenseCategory{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(fields).Error
}

func (r *repo) DeleteCategory(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.ExpenseCategory{}).Error
}
