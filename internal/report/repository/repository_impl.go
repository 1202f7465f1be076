package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	paymentdomain "github.com/solobooks/solobooks/internal/payment/domain"
	"github.com/solobooks/solobooks/internal/report/domain"
	"gorm.io/gorm"
)

// uncategorizedName labels the bucket for expenses without a category.
const uncategorizedName = "Uncategorized"

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) RevenueInWindow(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Select("COALESCE(SUM(payments.amount), 0)").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.owner_id = ?", ownerID).
		Where("invoices.deleted_at IS NULL").
		Where("payments.paid_at >= ? AND payments.paid_at < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (r *repo) BilledInWindow(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("owner_id = ?", ownerID).
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (r *repo) ExpensesInWindow(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&expensedomain.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ?", ownerID).
		Where("date >= ? AND date < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (r *repo) OutstandingBalance(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("COALESCE(SUM(total_amount - paid_amount), 0)").
		Where("owner_id = ?", ownerID).
		Where("status IN ?", []invoicedomain.InvoiceStatus{invoicedomain.InvoiceStatusDraft, invoicedomain.InvoiceStatusSent}).
		Scan(&total).Error
	return total, err
}

func (r *repo) ExpenseBreakdown(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to *time.Time) ([]domain.CategoryBreakdown, error) {
	q := db.WithContext(ctx).
		Model(&expensedomain.Expense{}).
		Select(
			"expenses.category_id AS category_id, " +
				"COALESCE(expense_categories.name, '') AS category_name, " +
				"COALESCE(expense_categories.color, '') AS category_color, " +
				"COALESCE(SUM(expenses.amount), 0) AS amount, " +
				"COUNT(expenses.id) AS count",
		).
		Joins("LEFT JOIN expense_categories ON expense_categories.id = expenses.category_id AND expense_categories.deleted_at IS NULL").
		Where("expenses.owner_id = ?", ownerID)
	if from != nil && to != nil {
		q = q.Where("expenses.date >= ? AND expenses.date < ?", *from, *to)
	}

	var rows []domain.CategoryBreakdown
	err := q.
		Group("expenses.category_id, expense_categories.name, expense_categories.color").
		Order("amount desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].CategoryID == nil {
			rows[i].CategoryName = uncategorizedName
			rows[i].CategoryColor = ""
		}
	}
	return rows, nil
}

func (r *repo) ProjectSales(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to *time.Time) ([]domain.ProjectSales, error) {
	q := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select(
			"invoices.project_id AS project_id, " +
				"COALESCE(projects.name, '') AS project_name, " +
				"COALESCE(SUM(invoices.total_amount), 0) AS total_billed, " +
				"COALESCE(SUM(invoices.paid_amount), 0) AS total_paid, " +
				"COALESCE(SUM(invoices.total_amount - invoices.paid_amount), 0) AS unpaid_amount",
		).
		Joins("LEFT JOIN projects ON projects.id = invoices.project_id AND projects.deleted_at IS NULL").
		Where("invoices.owner_id = ?", ownerID).
		Where("invoices.project_id IS NOT NULL")
	if from != nil && to != nil {
		q = q.Where("invoices.issued_at >= ? AND invoices.issued_at < ?", *from, *to)
	}

	var rows []domain.ProjectSales
	err := q.
		Group("invoices.project_id, projects.name").
		Order("total_billed desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) RecentInvoices(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, limit int) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("issued_at desc, id desc").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) RecentExpenses(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, limit int) ([]expensedomain.Expense, error) {
	var expenses []expensedomain.Expense
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date desc, id desc").
		Limit(limit).
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}
