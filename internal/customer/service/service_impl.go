package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/customer/domain"
	"github.com/solobooks/solobooks/internal/userctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Customer{}, domain.ErrInvalidOwner
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		OwnerID:   ownerID,
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Customer{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Customer{}, domain.ErrInvalidID
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		fields["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if err := s.repo.Update(ctx, s.db, ownerID, id, fields); err != nil {
		return domain.Customer{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if updated == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Customer, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Customer{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Customer{}, domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	items, err := s.repo.List(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}
	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}
	return customers, nil
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
	return s.repo.Delete(ctx, s.db, ownerID, id)
}
