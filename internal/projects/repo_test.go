package projects

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

func setupProjectsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS projects (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  priority TEXT NOT NULL DEFAULT 'medium',
  status TEXT NOT NULL DEFAULT 'pending',
  coordinator_id TEXT NOT NULL,
  assigned_field_officer_id TEXT,
  assigned_client_id TEXT,
  assigned_agent_id TEXT,
  assigned_accessor_id TEXT,
  assigned_senior_valuer_id TEXT,
  has_agent INTEGER NOT NULL DEFAULT 0,
  start_date DATETIME,
  end_date DATETIME,
  md_gm_approval_status TEXT NOT NULL DEFAULT 'pending',
  md_gm_rejection_reason TEXT,
  md_gm_approved_at DATETIME,
  md_gm_rejected_at DATETIME,
  estimated_value NUMERIC NOT NULL DEFAULT 0,
  payment_completed INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedProject(t *testing.T, repo Repository, title, description string, at time.Time) *models.Project {
	t.Helper()
	project := &models.Project{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		Priority:       enums.PriorityMedium,
		Status:         enums.ProjectStatusPending,
		CoordinatorID:  uuid.New(),
		EstimatedValue: decimal.NewFromInt(50000),
		CreatedAt:      at,
	}
	require.NoError(t, repo.CreateProject(context.Background(), project))
	return project
}

func TestProjectsRepoSearchIgnoresCase(t *testing.T) {
	repo := NewRepository(setupProjectsTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	matara := seedProject(t, repo, "Matara Seafront Plot", "survey of the beachfront land", base)
	seedProject(t, repo, "Warehouse complex", "MATARA industrial zone buildings", base.Add(time.Minute))
	seedProject(t, repo, "Kurunegala paddy field", "irrigated farmland", base.Add(2*time.Minute))

	items, total, err := repo.ListProjects(ctx, ListFilters{Search: "matara"}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	items, total, err = repo.ListProjects(ctx, ListFilters{Search: "SEAFRONT"}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, matara.ID, items[0].ID)
}
