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
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	invoicerepository "github.com/solobooks/solobooks/internal/invoice/repository"
	invoiceservice "github.com/solobooks/solobooks/internal/invoice/service"
	"github.com/solobooks/solobooks/internal/payment/domain"
	paymentrepository "github.com/solobooks/solobooks/internal/payment/repository"
	"github.com/solobooks/solobooks/internal/userctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type paymentFixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	payments domain.Service
	invoices invoicedomain.Service
	ctx      context.Context
}

func setupPaymentService(t *testing.T) paymentFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&domain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC))

	invoiceRepo := invoicerepository.Provide()
	paymentRepo := paymentrepository.Provide()
	snapshots := cache.NewReportSnapshotCache()

	payments := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fake,
		Repo:        paymentRepo,
		InvoiceRepo: invoiceRepo,
		Snapshots:   snapshots,
	})
	invoices := invoiceservice.New(invoiceservice.Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fake,
		Repo:        invoiceRepo,
		PaymentRepo: paymentRepo,
		Snapshots:   snapshots,
	})

	ctx := userctx.WithUserID(context.Background(), node.Generate())
	return paymentFixture{db: db, node: node, payments: payments, invoices: invoices, ctx: ctx}
}

func (f paymentFixture) createInvoice(t *testing.T, total int64) invoicedomain.Invoice {
	t.Helper()
	invoice, err := f.invoices.Create(f.ctx, invoicedomain.CreateInvoiceRequest{
		CustomerID:    snowflake.ID(7),
		InvoiceNumber: "INV-PAY-1",
		IssuedAt:      time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		DueAt:         time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC),
		Items: []invoicedomain.ItemInput{
			{Description: "Work", Quantity: 1, UnitPrice: total},
		},
	})
	require.NoError(t, err)
	return invoice
}

func (f paymentFixture) reloadInvoice(t *testing.T, id snowflake.ID) invoicedomain.Invoice {
	t.Helper()
	invoice, err := f.invoices.GetByID(f.ctx, id)
	require.NoError(t, err)
	return invoice
}

func TestRegisterUpdatesPaidAmount(t *testing.T) {
	f := setupPaymentService(t)
	invoice := f.createInvoice(t, 500000)

	paidAt := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	payment, err := f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount:        250000,
		PaidAt:        paidAt,
		PaymentMethod: domain.MethodBankTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250000), payment.Amount)

	reloaded := f.reloadInvoice(t, invoice.ID)
	assert.Equal(t, int64(250000), reloaded.PaidAmount)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, reloaded.Status, "registering a payment never moves status")
	assert.False(t, reloaded.IsFullyPaid())
}

func TestRegisterValidation(t *testing.T) {
	f := setupPaymentService(t)
	invoice := f.createInvoice(t, 100000)
	paidAt := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	_, err := f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 0, PaidAt: paidAt, PaymentMethod: domain.MethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 1000, PaymentMethod: domain.MethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPaidAt)

	_, err = f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 1000, PaidAt: paidAt, PaymentMethod: "CHEQUE",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = f.payments.Register(f.ctx, f.node.Generate(), domain.RegisterPaymentRequest{
		Amount: 1000, PaidAt: paidAt, PaymentMethod: domain.MethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateRecomputesSum(t *testing.T) {
	f := setupPaymentService(t)
	invoice := f.createInvoice(t, 300000)
	paidAt := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	first, err := f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 100000, PaidAt: paidAt, PaymentMethod: domain.MethodBankTransfer,
	})
	require.NoError(t, err)
	_, err = f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 50000, PaidAt: paidAt, PaymentMethod: domain.MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(150000), f.reloadInvoice(t, invoice.ID).PaidAmount)

	newAmount := int64(200000)
	method := domain.MethodCreditCard
	updated, err := f.payments.Update(f.ctx, first.ID, domain.UpdatePaymentRequest{
		Amount:        &newAmount,
		PaymentMethod: &method,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(200000), updated.Amount)
	assert.Equal(t, domain.MethodCreditCard, updated.PaymentMethod)

	assert.Equal(t, int64(250000), f.reloadInvoice(t, invoice.ID).PaidAmount)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := setupPaymentService(t)
	invoice := f.createInvoice(t, 300000)
	paidAt := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	payment, err := f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 120000, PaidAt: paidAt, PaymentMethod: domain.MethodBankTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, int64(120000), f.reloadInvoice(t, invoice.ID).PaidAmount)

	// Notes-only updates leave the payment set unchanged, so each recompute
	// must land on the same sum.
	notes := "wire ref 8841"
	for i := 0; i < 2; i++ {
		_, err := f.payments.Update(f.ctx, payment.ID, domain.UpdatePaymentRequest{Notes: &notes})
		require.NoError(t, err)

		reloaded := f.reloadInvoice(t, invoice.ID)
		assert.Equal(t, int64(120000), reloaded.PaidAmount)
		assert.Equal(t, invoicedomain.InvoiceStatusDraft, reloaded.Status)
	}
}

func TestDeleteRecomputesSum(t *testing.T) {
	f := setupPaymentService(t)
	invoice := f.createInvoice(t, 300000)
	paidAt := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	first, err := f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 100000, PaidAt: paidAt, PaymentMethod: domain.MethodBankTransfer,
	})
	require.NoError(t, err)
	_, err = f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 50000, PaidAt: paidAt, PaymentMethod: domain.MethodCash,
	})
	require.NoError(t, err)

	require.NoError(t, f.payments.Delete(f.ctx, first.ID))
	assert.Equal(t, int64(50000), f.reloadInvoice(t, invoice.ID).PaidAmount)

	listed, err := f.payments.ListByInvoice(f.ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestDeleteLastPaymentKeepsPaidStatus(t *testing.T) {
	f := setupPaymentService(t)
	invoice := f.createInvoice(t, 100000)
	paidAt := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	payment, err := f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 100000, PaidAt: paidAt, PaymentMethod: domain.MethodBankTransfer,
	})
	require.NoError(t, err)

	_, err = f.invoices.MarkPaid(f.ctx, invoice.ID)
	require.NoError(t, err)

	require.NoError(t, f.payments.Delete(f.ctx, payment.ID))

	reloaded := f.reloadInvoice(t, invoice.ID)
	assert.Equal(t, int64(0), reloaded.PaidAmount)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, reloaded.Status, "status does not auto-revert when payments vanish")
}

func TestPaymentOwnershipRunsThroughInvoice(t *testing.T) {
	f := setupPaymentService(t)
	invoice := f.createInvoice(t, 100000)
	paidAt := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	payment, err := f.payments.Register(f.ctx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 40000, PaidAt: paidAt, PaymentMethod: domain.MethodCash,
	})
	require.NoError(t, err)

	otherCtx := userctx.WithUserID(context.Background(), f.node.Generate())

	_, err = f.payments.Register(otherCtx, invoice.ID, domain.RegisterPaymentRequest{
		Amount: 1000, PaidAt: paidAt, PaymentMethod: domain.MethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	amount := int64(50000)
	_, err = f.payments.Update(otherCtx, payment.ID, domain.UpdatePaymentRequest{Amount: &amount})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.payments.Delete(otherCtx, payment.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.payments.ListByInvoice(otherCtx, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(40000), f.reloadInvoice(t, invoice.ID).PaidAmount, "foreign calls leave the ledger untouched")
}
