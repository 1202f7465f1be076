package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repo) FindByInvoiceID(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at desc, id desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Payment{}).Error
}

func (r *repo) DeleteAllByInvoiceID(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.Payment{}).Error
}

func (r *repo) TotalPaidAmount(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
