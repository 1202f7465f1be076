package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/project/domain"
	"github.com/solobooks/solobooks/internal/userctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// copySuffix is appended to the name of a duplicated project.
const copySuffix = " (copy)"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("project.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProjectRequest) (domain.Project, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Project{}, domain.ErrInvalidOwner
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Project{}, domain.ErrInvalidName
	}
	if req.ContractType == "" {
		req.ContractType = domain.ContractFixed
	}
	if !domain.ValidContractType(req.ContractType) {
		return domain.Project{}, domain.ErrInvalidContractType
	}
	if req.Status == "" {
		req.Status = domain.StatusActive
	}
	if !domain.ValidStatus(req.Status) {
		return domain.Project{}, domain.ErrInvalidStatus
	}
	if req.ContractAmount < 0 || req.HourlyRate < 0 {
		return domain.Project{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	project := domain.Project{
		ID:             s.genID.Generate(),
		OwnerID:        ownerID,
		CustomerID:     req.CustomerID,
		Name:           name,
		Description:    req.Description,
		ContractType:   req.ContractType,
		ContractAmount: req.ContractAmount,
		HourlyRate:     req.HourlyRate,
		Status:         req.Status,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateProjectRequest) (domain.Project, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Project{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Project{}, domain.ErrInvalidID
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return domain.Project{}, domain.ErrInvalidName
	}
	if req.ContractType != nil && !domain.ValidContractType(*req.ContractType) {
		return domain.Project{}, domain.ErrInvalidContractType
	}
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return domain.Project{}, domain.ErrInvalidStatus
	}
	if (req.ContractAmount != nil && *req.ContractAmount < 0) ||
		(req.HourlyRate != nil && *req.HourlyRate < 0) {
		return domain.Project{}, domain.ErrInvalidAmount
	}

	existing, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Project{}, err
	}
	if existing == nil {
		return domain.Project{}, domain.ErrNotFound
	}

	fields := map[string]any{}
	if req.CustomerID != nil {
		fields["customer_id"] = *req.CustomerID
	}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ContractType != nil {
		fields["contract_type"] = *req.ContractType
	}
	if req.ContractAmount != nil {
		fields["contract_amount"] = *req.ContractAmount
	}
	if req.HourlyRate != nil {
		fields["hourly_rate"] = *req.HourlyRate
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.StartDate != nil {
		fields["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		fields["end_date"] = *req.EndDate
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if err := s.repo.Update(ctx, s.db, ownerID, id, fields); err != nil {
		return domain.Project{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Project{}, err
	}
	if updated == nil {
		return domain.Project{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Project, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Project{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Project{}, domain.ErrInvalidID
	}

	project, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Project{}, err
	}
	if project == nil {
		return domain.Project{}, domain.ErrNotFound
	}
	return *project, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProjectRequest) ([]domain.Project, error) {
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
	projects := make([]domain.Project, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		projects = append(projects, *item)
	}
	return projects, nil
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

// Duplicate clones a project under a new id with the copy suffix on its name.
func (s *Service) Duplicate(ctx context.Context, id snowflake.ID) (domain.Project, error) {
	ownerID, ok := userctx.UserIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.Project{}, domain.ErrInvalidOwner
	}
	if id == 0 {
		return domain.Project{}, domain.ErrInvalidID
	}

	source, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return domain.Project{}, err
	}
	if source == nil {
		return domain.Project{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	copy := *source
	copy.ID = s.genID.Generate()
	copy.Name = source.Name + copySuffix
	copy.CreatedAt = now
	copy.UpdatedAt = now
	copy.DeletedAt = gorm.DeletedAt{}

	if err := s.repo.Insert(ctx, s.db, &copy); err != nil {
		return domain.Project{}, err
	}
	s.log.Info("project duplicated",
		zap.Int64("source_id", int64(source.ID)),
		zap.Int64("project_id", int64(copy.ID)),
	)
	return copy, nil
}
