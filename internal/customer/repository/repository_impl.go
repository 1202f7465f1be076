package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc, id desc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Customer{}).Error
}
