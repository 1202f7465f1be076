package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter domain.ListInvoiceRequest) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("owner_id = ?", ownerID)
	if filter.Status != nil {
		stmt = stmt.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ProjectID != nil {
		stmt = stmt.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.IssuedFrom != nil {
		stmt = stmt.Where("issued_at >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		stmt = stmt.Where("issued_at < ?", *filter.IssuedTo)
	}
	err := stmt.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Order("issued_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Invoice{}).Error
}

func (r *repo) ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, items []domain.InvoiceItem) error {
	if err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.InvoiceItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) UpdatePaidAmount(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, amount int64, forceStatus *domain.InvoiceStatus) error {
	fields := map[string]any{
		"paid_amount": amount,
		"updated_at":  time.Now().UTC(),
	}
	if forceStatus != nil {
		fields["status"] = *forceStatus
	}
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(fields).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, status domain.InvoiceStatus) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
