package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/cache"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/expense/domain"
	"github.com/solobooks/solobooks/internal/userctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Snapshots cache.ReportSnapshotCache
}

// Service manages expenses and their categories. Mutations drop the owner's
// cached report snapshots so aggregates pick up the change immediately.
type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	snapshots cache.ReportSnapshotCache
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("expense.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		snapshots: p.Snapshots,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Expense{}, domain.ErrInvalidOwner
	}
	if req.Amount <= 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}
	if req.Date.IsZero() {
		return domain.Expense{}, domain.ErrInvalidDate
	}

	now := s.clock.Now()
	expense := domain.Expense{
		ID:            s.genID.Generate(),
		OwnerID:       ownerID,
		ProjectID:     req.ProjectID,
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Date:          req.Date.UTC(),
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &expense); err != nil {
		return domain.Expense{}, err
	}
	s.snapshots.Invalidate(ownerID)
	return expense, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateExpenseRequest) (domain.Expense, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Expense{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Expense{}, domain.ErrInvalidID
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}
	if req.Date != nil && req.Date.IsZero() {
		return domain.Expense{}, domain.ErrInvalidDate
	}

	existing, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if existing == nil {
		return domain.Expense{}, domain.ErrNotFound
	}

	fields := map[string]any{}
	if req.ProjectID != nil {
		fields["project_id"] = *req.ProjectID
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.Date != nil {
		fields["date"] = req.Date.UTC()
	}
	if req.PaymentMethod != nil {
		fields["payment_method"] = *req.PaymentMethod
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if err := s.repo.Update(ctx, s.db, ownerID, id, fields); err != nil {
		return domain.Expense{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if updated == nil {
		return domain.Expense{}, domain.ErrNotFound
	}
	s.snapshots.Invalidate(ownerID)
	return *updated, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Expense, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Expense{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Expense{}, domain.ErrInvalidID
	}

	expense, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}
	return *expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) ([]domain.Expense, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	items, err := s.repo.List(ctx, s.db, ownerID, req)
	if err != nil {
		return nil, err
	}
	expenses := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}
	return expenses, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, s.db, ownerID, id); err != nil {
		return err
	}
	s.snapshots.Invalidate(ownerID)
	return nil
}

// Duplicate clones an expense under a new id, dated today.
func (s *Service) Duplicate(ctx context.Context, id snowflake.ID) (domain.Expense, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Expense{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Expense{}, domain.ErrInvalidID
	}

	source, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if source == nil {
		return domain.Expense{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	copy := *source
	copy.ID = s.genID.Generate()
	copy.Date = now.Truncate(24 * time.Hour)
	copy.CreatedAt = now
	copy.UpdatedAt = now
	copy.DeletedAt = gorm.DeletedAt{}

	if err := s.repo.Insert(ctx, s.db, &copy); err != nil {
		return domain.Expense{}, err
	}
	s.snapshots.Invalidate(ownerID)
	s.log.Info("expense duplicated",
		zap.Int64("source_id", int64(source.ID)),
		zap.Int64("expense_id", int64(copy.ID)),
	)
	return copy, nil
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.ExpenseCategory, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.ExpenseCategory{}, domain.ErrInvalidOwner
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ExpenseCategory{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	category := domain.ExpenseCategory{
		ID:        s.genID.Generate(),
		OwnerID:   ownerID,
		Name:      name,
		Color:     req.Color,
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertCategory(ctx, s.db, &category); err != nil {
		return domain.ExpenseCategory{}, err
	}
	s.snapshots.Invalidate(ownerID)
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id snowflake.ID, req domain.UpdateCategoryRequest) (domain.ExpenseCategory, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.ExpenseCategory{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.ExpenseCategory{}, domain.ErrInvalidID
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return domain.ExpenseCategory{}, domain.ErrInvalidName
	}

	existing, err := s.repo.FindCategoryByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}
	if existing == nil {
		return domain.ExpenseCategory{}, domain.ErrNotFound
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}
	if err := s.repo.UpdateCategory(ctx, s.db, ownerID, id, fields); err != nil {
		return domain.ExpenseCategory{}, err
	}

	updated, err := s.repo.FindCategoryByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.ExpenseCategory{}, err
	}
	if updated == nil {
		return domain.ExpenseCategory{}, domain.ErrNotFound
	}
	s.snapshots.Invalidate(ownerID)
	return *updated, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	items, err := s.repo.ListCategories(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.ExpenseCategory, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		categories = append(categories, *item)
	}
	return categories, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id snowflake.ID) error {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.ErrInvalidID
	}

	existing, err := s.repo.FindCategoryByID(ctx, s.db, ownerID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := s.repo.DeleteCategory(ctx, s.db, ownerID, id); err != nil {
		return err
	}
	s.snapshots.Invalidate(ownerID)
	return nil
}
