package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, project *Project) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Project, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, req ListProjectRequest) ([]*Project, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error
}
