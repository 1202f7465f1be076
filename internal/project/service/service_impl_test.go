package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/project/domain"
	projectrepository "github.com/solobooks/solobooks/internal/project/repository"
	"github.com/solobooks/solobooks/internal/userctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProjectService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Project{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)),
		Repo:  projectrepository.Provide(),
	})
	return svc, node
}

func TestProjectCRUD(t *testing.T) {
	svc, node := setupProjectService(t)
	ctx := userctx.WithUserID(context.Background(), node.Generate())

	created, err := svc.Create(ctx, domain.CreateProjectRequest{
		Name:           "Website Rebuild",
		ContractType:   domain.ContractFixed,
		ContractAmount: 800000,
		Status:         domain.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, created.Status)

	status := domain.StatusCompleted
	updated, err := svc.Update(ctx, created.ID, domain.UpdateProjectRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, "Website Rebuild", updated.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectCreateValidation(t *testing.T) {
	svc, node := setupProjectService(t)
	ctx := userctx.WithUserID(context.Background(), node.Generate())

	_, err := svc.Create(ctx, domain.CreateProjectRequest{
		Name:         "   ",
		ContractType: domain.ContractFixed,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateProjectRequest{
		Name:         "Retainer",
		ContractType: "RETAINER",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidContractType)
}

func TestProjectDuplicate(t *testing.T) {
	svc, node := setupProjectService(t)
	ctx := userctx.WithUserID(context.Background(), node.Generate())

	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	original, err := svc.Create(ctx, domain.CreateProjectRequest{
		Name:         "App Support",
		ContractType: domain.ContractHourly,
		HourlyRate:   8000,
		Status:       domain.StatusActive,
		StartDate:    &start,
		Notes:        "monthly retainer",
	})
	require.NoError(t, err)

	copy, err := svc.Duplicate(ctx, original.ID)
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, copy.ID)
	assert.Equal(t, "App Support (copy)", copy.Name)
	assert.Equal(t, domain.ContractHourly, copy.ContractType)
	assert.Equal(t, int64(8000), copy.HourlyRate)
	assert.Equal(t, "monthly retainer", copy.Notes)

	listed, err := svc.List(ctx, domain.ListProjectRequest{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestProjectOwnerScoping(t *testing.T) {
	svc, node := setupProjectService(t)
	ctx := userctx.WithUserID(context.Background(), node.Generate())

	created, err := svc.Create(ctx, domain.CreateProjectRequest{
		Name:         "Private",
		ContractType: domain.ContractFixed,
	})
	require.NoError(t, err)

	otherCtx := userctx.WithUserID(context.Background(), node.Generate())
	_, err = svc.GetByID(otherCtx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Duplicate(otherCtx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
