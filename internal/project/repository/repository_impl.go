package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/project/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Create(project).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, req domain.ListProjectRequest) ([]*domain.Project, error) {
	q := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if req.Status != nil {
		q = q.Where("status = ?", *req.Status)
	}
	if req.CustomerID != nil {
		q = q.Where("customer_id = ?", *req.CustomerID)
	}

	var projects []*domain.Project
	if err := q.Order("created_at desc, id desc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Project{}).Error
}
