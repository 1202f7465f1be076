package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/cache"
	"github.com/solobooks/solobooks/internal/clock"
	invoicedomain "github.com/solobooks/solobooks/internal/invoice/domain"
	"github.com/solobooks/solobooks/internal/payment/domain"
	"github.com/solobooks/solobooks/internal/userctx"
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
	InvoiceRepo invoicedomain.Repository
	Snapshots   cache.ReportSnapshotCache
}

// Service owns the payment side of the invoice ledger. After every mutation
// the parent invoice's paid amount is recomputed from the live payment set
// within the same transaction; status is never touched here. Committed
// mutations drop the owner's cached report snapshots.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	invoiceRepo invoicedomain.Repository
	snapshots   cache.ReportSnapshotCache
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		invoiceRepo: p.InvoiceRepo,
		snapshots:   p.Snapshots,
	}
}

func (s *Service) Register(ctx context.Context, invoiceID snowflake.ID, req domain.RegisterPaymentRequest) (domain.Payment, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Payment{}, domain.ErrInvalidOwner
	}
	if invoiceID == 0 {
		return domain.Payment{}, domain.ErrInvalidID
	}
	if req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	if req.PaidAt.IsZero() {
		return domain.Payment{}, domain.ErrInvalidPaidAt
	}
	method := domain.PaymentMethod(strings.TrimSpace(string(req.PaymentMethod)))
	if !domain.ValidMethod(method) {
		return domain.Payment{}, domain.ErrInvalidMethod
	}

	now := s.clock.Now()
	payment := domain.Payment{
		ID:            s.genID.Generate(),
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		PaidAt:        req.PaidAt.UTC(),
		PaymentMethod: method,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.FindByID(ctx, tx, ownerID, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.Insert(ctx, tx, &payment); err != nil {
			return err
		}
		return s.recompute(ctx, tx, ownerID, invoiceID)
	})
	if err != nil {
		return domain.Payment{}, err
	}
	s.snapshots.Invalidate(ownerID)
	return payment, nil
}

func (s *Service) Update(ctx context.Context, paymentID snowflake.ID, req domain.UpdatePaymentRequest) (domain.Payment, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Payment{}, domain.ErrInvalidOwner
	}
	if paymentID == 0 {
		return domain.Payment{}, domain.ErrInvalidID
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	if req.PaymentMethod != nil && !domain.ValidMethod(*req.PaymentMethod) {
		return domain.Payment{}, domain.ErrInvalidMethod
	}

	var updated *domain.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		// Ownership runs through the parent invoice; a foreign-owned parent
		// reads as absent.
		invoice, err := s.invoiceRepo.FindByID(ctx, tx, ownerID, existing.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		fields := map[string]any{}
		if req.Amount != nil {
			fields["amount"] = *req.Amount
		}
		if req.PaidAt != nil {
			fields["paid_at"] = req.PaidAt.UTC()
		}
		if req.PaymentMethod != nil {
			fields["payment_method"] = *req.PaymentMethod
		}
		if req.Notes != nil {
			fields["notes"] = *req.Notes
		}
		if err := s.repo.Update(ctx, tx, paymentID, fields); err != nil {
			return err
		}
		if err := s.recompute(ctx, tx, ownerID, existing.InvoiceID); err != nil {
			return err
		}
		updated, err = s.repo.FindByID(ctx, tx, paymentID)
		return err
	})
	if err != nil {
		return domain.Payment{}, err
	}
	s.snapshots.Invalidate(ownerID)
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, paymentID snowflake.ID) error {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.ErrInvalidOwner
	}
	if paymentID == 0 {
		return domain.ErrInvalidID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		invoice, err := s.invoiceRepo.FindByID(ctx, tx, ownerID, existing.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.Delete(ctx, tx, paymentID); err != nil {
			return err
		}
		// Recomputation reads only live rows, so the sum excludes the payment
		// deleted above by construction.
		return s.recompute(ctx, tx, ownerID, existing.InvoiceID)
	})
	if err != nil {
		return err
	}
	s.snapshots.Invalidate(ownerID)
	return nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]domain.Payment, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	if invoiceID == 0 {
		return nil, domain.ErrInvalidID
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, s.db, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}

	rows, err := s.repo.FindByInvoiceID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	payments := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		payments = append(payments, *row)
	}
	return payments, nil
}

// recompute writes the live payment sum as the invoice's paid amount. Status
// is left alone; only explicit transitions move it.
func (s *Service) recompute(ctx context.Context, tx *gorm.DB, ownerID, invoiceID snowflake.ID) error {
	total, err := s.repo.TotalPaidAmount(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	return s.invoiceRepo.UpdatePaidAmount(ctx, tx, ownerID, invoiceID, total, nil)
}
