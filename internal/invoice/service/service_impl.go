package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/cache"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/invoice/domain"
	paymentdomain "github.com/solobooks/solobooks/internal/payment/domain"
	"github.com/solobooks/solobooks/internal/userctx"
	"github.com/solobooks/solobooks/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	PaymentRepo paymentdomain.Repository
	Snapshots   cache.ReportSnapshotCache
}

// Service keeps an invoice's derived state (paid amount, total, status)
// consistent with its items and live payments. Every mutating operation runs
// inside one database transaction so a partial failure leaves nothing behind,
// and drops the owner's cached report snapshots once it commits.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	paymentRepo paymentdomain.Repository
	snapshots   cache.ReportSnapshotCache
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		paymentRepo: p.PaymentRepo,
		snapshots:   p.Snapshots,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOwner
	}

	if req.CustomerID == 0 {
		return domain.Invoice{}, domain.ErrInvalidCustomer
	}
	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		return domain.Invoice{}, domain.ErrInvalidInvoiceNumber
	}
	if req.IssuedAt.IsZero() || req.DueAt.IsZero() {
		return domain.Invoice{}, domain.ErrInvalidDates
	}
	if err := validateItems(req.Items); err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	invoice := domain.Invoice{
		ID:            s.genID.Generate(),
		OwnerID:       ownerID,
		CustomerID:    req.CustomerID,
		ProjectID:     req.ProjectID,
		InvoiceNumber: number,
		Status:        domain.InvoiceStatusDraft,
		IssuedAt:      req.IssuedAt.UTC(),
		DueAt:         req.DueAt.UTC(),
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	items := s.buildItems(invoice.ID, req.Items)
	invoice.TotalAmount = itemTotal(items)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}
		if len(items) > 0 {
			return s.repo.ReplaceItems(ctx, tx, invoice.ID, items)
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	s.snapshots.Invalidate(ownerID)

	invoice.Items = items
	return invoice, nil
}

// Update composes the consistency primitives: wholesale item replacement with
// total recomputation, scalar field updates, and status transition side
// effects evaluated against the previous stored status.
func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}
	if req.ItemsProvided {
		if err := validateItems(req.Items); err != nil {
			return domain.Invoice{}, err
		}
	}

	var updated *domain.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		previousStatus := existing.Status

		fields := scalarFields(req)

		totalAmount := existing.TotalAmount
		if req.ItemsProvided {
			items := s.buildItems(id, req.Items)
			if err := s.repo.ReplaceItems(ctx, tx, id, items); err != nil {
				return err
			}
			totalAmount = itemTotal(items)
			fields["total_amount"] = totalAmount
		}

		if err := s.repo.Update(ctx, tx, ownerID, id, fields); err != nil {
			return err
		}

		statusChanged := req.Status != nil && *req.Status != previousStatus
		switch {
		case statusChanged && *req.Status == domain.InvoiceStatusPaid:
			// Entering PAID: settle the outstanding balance with a
			// reconciliation payment so the ledger backs the new state.
			if err := s.settle(ctx, tx, ownerID, id, totalAmount, existing.PaidAmount); err != nil {
				return err
			}
		case statusChanged && previousStatus == domain.InvoiceStatusPaid:
			// Leaving PAID reverses the full payment history. The stored
			// status must be forced to the requested value; with paidAmount
			// back at zero nothing else may infer a state.
			if err := s.paymentRepo.DeleteAllByInvoiceID(ctx, tx, id); err != nil {
				return err
			}
			if err := s.repo.UpdatePaidAmount(ctx, tx, ownerID, id, 0, req.Status); err != nil {
				return err
			}
		case req.ItemsProvided:
			// Total may have moved; refresh paidAmount from the live payment
			// set without touching status.
			totalPaid, err := s.paymentRepo.TotalPaidAmount(ctx, tx, id)
			if err != nil {
				return err
			}
			if err := s.repo.UpdatePaidAmount(ctx, tx, ownerID, id, totalPaid, nil); err != nil {
				return err
			}
		}

		updated, err = s.repo.FindByID(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if updated == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	s.snapshots.Invalidate(ownerID)
	return *updated, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) ([]domain.Invoice, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return nil, domain.ErrInvalidStatus
	}

	items, err := s.repo.List(ctx, s.db, ownerID, req)
	if err != nil {
		return nil, err
	}
	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.ErrInvalidID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return s.repo.Delete(ctx, tx, ownerID, id)
	})
	if err != nil {
		return err
	}
	s.snapshots.Invalidate(ownerID)
	return nil
}

// MarkSent is the guarded DRAFT -> SENT transition.
func (s *Service) MarkSent(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	var sent *domain.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if existing.Status != domain.InvoiceStatusDraft {
			return domain.ErrNotDraft
		}
		if err := s.repo.UpdateStatus(ctx, tx, ownerID, id, domain.InvoiceStatusSent); err != nil {
			return err
		}
		sent, err = s.repo.FindByID(ctx, tx, ownerID, id)
		return err
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	s.snapshots.Invalidate(ownerID)
	return *sent, nil
}

// MarkPaid settles the invoice: any outstanding balance becomes a
// reconciliation payment and paidAmount reaches totalAmount, with the status
// explicitly forced to PAID.
func (s *Service) MarkPaid(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	var paid *domain.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if err := s.settle(ctx, tx, ownerID, id, existing.TotalAmount, existing.PaidAmount); err != nil {
			return err
		}
		paid, err = s.repo.FindByID(ctx, tx, ownerID, id)
		return err
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	s.snapshots.Invalidate(ownerID)
	return *paid, nil
}

// settle materializes the outstanding balance as an explicit ledger entry and
// brings paidAmount up to totalAmount with the status forced to PAID.
func (s *Service) settle(ctx context.Context, tx *gorm.DB, ownerID, invoiceID snowflake.ID, totalAmount, paidAmount int64) error {
	remaining := money.Unpaid(totalAmount, paidAmount)
	if remaining > 0 {
		now := s.clock.Now()
		reconciliation := paymentdomain.Payment{
			ID:            s.genID.Generate(),
			InvoiceID:     invoiceID,
			Amount:        remaining,
			PaidAt:        now,
			PaymentMethod: paymentdomain.MethodBankTransfer,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.paymentRepo.Insert(ctx, tx, &reconciliation); err != nil {
			return err
		}
		s.log.Info("created reconciliation payment",
			zap.String("invoice_id", invoiceID.String()),
			zap.Int64("amount", remaining),
		)
	}
	forced := domain.InvoiceStatusPaid
	return s.repo.UpdatePaidAmount(ctx, tx, ownerID, invoiceID, totalAmount, &forced)
}

func (s *Service) buildItems(invoiceID snowflake.ID, inputs []domain.ItemInput) []domain.InvoiceItem {
	now := s.clock.Now()
	items := make([]domain.InvoiceItem, 0, len(inputs))
	for index, input := range inputs {
		items = append(items, domain.InvoiceItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			Description: strings.TrimSpace(input.Description),
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			Hours:       input.Hours,
			Amount:      money.ItemAmount(input.Quantity, input.UnitPrice, input.Hours),
			SortOrder:   index,
			CreatedAt:   now,
		})
	}
	return items
}

func itemTotal(items []domain.InvoiceItem) int64 {
	amounts := make([]int64, 0, len(items))
	for _, item := range items {
		amounts = append(amounts, item.Amount)
	}
	return money.Sum(amounts)
}

func validateItems(items []domain.ItemInput) error {
	for _, item := range items {
		if item.Quantity < 0 || item.UnitPrice < 0 || item.Hours < 0 {
			return domain.ErrInvalidItems
		}
	}
	return nil
}

// scalarFields collects the non-derived column updates from the request.
func scalarFields(req domain.UpdateInvoiceRequest) map[string]any {
	fields := map[string]any{}
	if req.CustomerID != nil {
		fields["customer_id"] = *req.CustomerID
	}
	if req.ProjectID != nil {
		fields["project_id"] = *req.ProjectID
	}
	if req.InvoiceNumber != nil {
		fields["invoice_number"] = strings.TrimSpace(*req.InvoiceNumber)
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.IssuedAt != nil {
		fields["issued_at"] = req.IssuedAt.UTC()
	}
	if req.DueAt != nil {
		fields["due_at"] = req.DueAt.UTC()
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	return fields
}
