package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/solobooks/solobooks/internal/cache"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/config"
	expensedomain "github.com/solobooks/solobooks/internal/expense/domain"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	paymentdomain "github.com/solobooks/solobooks/internal/payment/domain"
	projectdomain "github.com/solobooks/solobooks/internal/project/domain"
	"github.com/solobooks/solobooks/internal/report/domain"
	"github.com/solobooks/solobooks/internal/report/repository"
	"github.com/solobooks/solobooks/internal/userctx"
	"github.com/solobooks/solobooks/pkg/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reportFixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	ctx     context.Context
	ownerID snowflake.ID
}

func setupReportService(t *testing.T) reportFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&paymentdomain.Payment{},
		&expensedomain.Expense{},
		&expensedomain.ExpenseCategory{},
		&projectdomain.Project{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	// Reports run "as of" mid-January 2026.
	fake := clock.NewFakeClock(time.Date(2026, time.January, 20, 10, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Clock:     fake,
		Reporting: config.NewStaticReportingConfigHolder(config.DefaultReportingConfig()),
		Repo:      repository.Provide(),
		Snapshots: cache.NewReportSnapshotCache(),
	})

	ownerID := node.Generate()
	ctx := userctx.WithUserID(context.Background(), ownerID)
	return reportFixture{db: db, node: node, svc: svc, ctx: ctx, ownerID: ownerID}
}

func (f reportFixture) insertInvoice(t *testing.T, status invoicedomain.InvoiceStatus, total, paid int64, issuedAt time.Time, projectID *snowflake.ID) invoicedomain.Invoice {
	t.Helper()
	invoice := invoicedomain.Invoice{
		ID:            f.node.Generate(),
		OwnerID:       f.ownerID,
		CustomerID:    snowflake.ID(9),
		ProjectID:     projectID,
		InvoiceNumber: fmt.Sprintf("INV-%d", f.node.Generate()),
		Status:        status,
		IssuedAt:      issuedAt,
		DueAt:         issuedAt.AddDate(0, 1, 0),
		TotalAmount:   total,
		PaidAmount:    paid,
	}
	require.NoError(t, f.db.Create(&invoice).Error)
	return invoice
}

func (f reportFixture) insertPayment(t *testing.T, invoiceID snowflake.ID, amount int64, paidAt time.Time) {
	t.Helper()
	payment := paymentdomain.Payment{
		ID:            f.node.Generate(),
		InvoiceID:     invoiceID,
		Amount:        amount,
		PaidAt:        paidAt,
		PaymentMethod: paymentdomain.MethodBankTransfer,
	}
	require.NoError(t, f.db.Create(&payment).Error)
}

func (f reportFixture) insertExpense(t *testing.T, amount int64, date time.Time, categoryID *snowflake.ID) {
	t.Helper()
	expense := expensedomain.Expense{
		ID:         f.node.Generate(),
		OwnerID:    f.ownerID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
	}
	require.NoError(t, f.db.Create(&expense).Error)
}

func TestMonthlySummary(t *testing.T) {
	f := setupReportService(t)

	jan5 := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusSent, 500000, 250000, jan5, nil)
	f.insertPayment(t, invoice.ID, 250000, jan10)
	f.insertExpense(t, 5000, jan5, nil)

	// Noise in another month must not leak into January.
	dec := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)
	paidInvoice := f.insertInvoice(t, invoicedomain.InvoiceStatusPaid, 80000, 80000, dec, nil)
	f.insertPayment(t, paidInvoice.ID, 80000, dec)
	f.insertExpense(t, 7000, dec, nil)

	summary, err := f.svc.MonthlySummary(f.ctx, period.Month{Year: 2026, Month: time.January})
	require.NoError(t, err)

	assert.Equal(t, "2026-01", summary.Month)
	assert.Equal(t, int64(250000), summary.Revenue)
	assert.Equal(t, int64(500000), summary.BilledAmount)
	assert.Equal(t, int64(5000), summary.Expenses)
	assert.Equal(t, int64(245000), summary.Profit)
	assert.Equal(t, int64(250000), summary.UnpaidAmount, "outstanding balance covers open invoices regardless of month")
	assert.InDelta(t, 0.5, summary.CollectionRate, 1e-9)
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	f := setupReportService(t)

	summary, err := f.svc.MonthlySummary(f.ctx, period.Month{Year: 2026, Month: time.March})
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.Revenue)
	assert.Equal(t, int64(0), summary.BilledAmount)
	assert.Equal(t, int64(0), summary.Profit)
	assert.Equal(t, float64(0), summary.CollectionRate, "zero billed yields zero rate, not NaN")
}

func TestMonthlyTrendZeroFillsAscending(t *testing.T) {
	f := setupReportService(t)

	nov := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusPaid, 90000, 90000, nov, nil)
	f.insertPayment(t, invoice.ID, 90000, nov)
	f.insertExpense(t, 10000, nov, nil)

	points, err := f.svc.MonthlyTrend(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, points, 6, "default window from config")

	assert.Equal(t, "2025-08", points[0].Month)
	assert.Equal(t, "2026-01", points[5].Month)

	for _, p := range points {
		if p.Month == "2025-11" {
			assert.Equal(t, int64(90000), p.Revenue)
			assert.Equal(t, int64(10000), p.Expenses)
			assert.Equal(t, int64(80000), p.Profit)
		} else {
			assert.Equal(t, int64(0), p.Revenue, p.Month)
			assert.Equal(t, int64(0), p.Expenses, p.Month)
		}
	}
}

func TestMonthlyTrendRejectsOversizedWindow(t *testing.T) {
	f := setupReportService(t)

	_, err := f.svc.MonthlyTrend(f.ctx, 25)
	assert.ErrorIs(t, err, domain.ErrInvalidMonths)
}

func TestExpenseBreakdown(t *testing.T) {
	f := setupReportService(t)

	category := expensedomain.ExpenseCategory{
		ID:      f.node.Generate(),
		OwnerID: f.ownerID,
		Name:    "Software",
		Color:   "#6366F1",
	}
	require.NoError(t, f.db.Create(&category).Error)

	jan := time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC)
	f.insertExpense(t, 30000, jan, &category.ID)
	f.insertExpense(t, 20000, jan, &category.ID)
	f.insertExpense(t, 60000, jan, nil)

	month := period.Month{Year: 2026, Month: time.January}
	rows, err := f.svc.ExpenseBreakdown(f.ctx, &month)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].CategoryID)
	assert.Equal(t, "Uncategorized", rows[0].CategoryName)
	assert.Equal(t, int64(60000), rows[0].Amount)
	assert.Equal(t, int64(1), rows[0].Count)

	require.NotNil(t, rows[1].CategoryID)
	assert.Equal(t, "Software", rows[1].CategoryName)
	assert.Equal(t, "#6366F1", rows[1].CategoryColor)
	assert.Equal(t, int64(50000), rows[1].Amount)
	assert.Equal(t, int64(2), rows[1].Count)
}

func TestProjectSales(t *testing.T) {
	f := setupReportService(t)

	project := projectdomain.Project{
		ID:           f.node.Generate(),
		OwnerID:      f.ownerID,
		Name:         "Website Rebuild",
		ContractType: projectdomain.ContractFixed,
		Status:       projectdomain.StatusActive,
	}
	require.NoError(t, f.db.Create(&project).Error)

	jan := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	f.insertInvoice(t, invoicedomain.InvoiceStatusSent, 400000, 100000, jan, &project.ID)
	f.insertInvoice(t, invoicedomain.InvoiceStatusPaid, 200000, 200000, jan, &project.ID)
	// Unassigned invoices stay out of the project report.
	f.insertInvoice(t, invoicedomain.InvoiceStatusSent, 999000, 0, jan, nil)

	rows, err := f.svc.ProjectSales(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Website Rebuild", rows[0].ProjectName)
	assert.Equal(t, int64(600000), rows[0].TotalBilled)
	assert.Equal(t, int64(300000), rows[0].TotalPaid)
	assert.Equal(t, int64(300000), rows[0].UnpaidAmount)
}

func TestRecentInvoicesAndExpenses(t *testing.T) {
	f := setupReportService(t)

	for day := 1; day <= 8; day++ {
		issued := time.Date(2026, time.January, day, 0, 0, 0, 0, time.UTC)
		f.insertInvoice(t, invoicedomain.InvoiceStatusDraft, 1000, 0, issued, nil)
		f.insertExpense(t, 500, issued, nil)
	}

	invoices, err := f.svc.RecentInvoices(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, invoices, 5, "default limit from config")
	assert.Equal(t, time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC), invoices[0].IssuedAt.UTC())

	expenses, err := f.svc.RecentExpenses(f.ctx, 3)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC), expenses[0].Date.UTC())

	_, err = f.svc.RecentInvoices(f.ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestDashboardComposesAllReports(t *testing.T) {
	f := setupReportService(t)

	jan5 := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusSent, 500000, 250000, jan5, nil)
	f.insertPayment(t, invoice.ID, 250000, jan10)
	f.insertExpense(t, 5000, jan5, nil)

	dashboard, err := f.svc.Dashboard(f.ctx, period.Month{Year: 2026, Month: time.January})
	require.NoError(t, err)

	assert.Equal(t, int64(250000), dashboard.Summary.Revenue)
	assert.Len(t, dashboard.Trend, 6)
	require.Len(t, dashboard.ExpenseBreakdown, 1)
	assert.Equal(t, "Uncategorized", dashboard.ExpenseBreakdown[0].CategoryName)
	assert.Empty(t, dashboard.ProjectSales)
	assert.Len(t, dashboard.RecentInvoices, 1)
	assert.Len(t, dashboard.RecentExpenses, 1)
}

func TestReportsScopeToOwner(t *testing.T) {
	f := setupReportService(t)

	jan := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	f.insertInvoice(t, invoicedomain.InvoiceStatusSent, 100000, 0, jan, nil)
	f.insertExpense(t, 4000, jan, nil)

	otherCtx := userctx.WithUserID(context.Background(), f.node.Generate())
	summary, err := f.svc.MonthlySummary(otherCtx, period.Month{Year: 2026, Month: time.January})
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.BilledAmount)
	assert.Equal(t, int64(0), summary.Expenses)
	assert.Equal(t, int64(0), summary.UnpaidAmount)

	_, err = f.svc.MonthlySummary(context.Background(), period.Month{Year: 2026, Month: time.January})
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)
}
