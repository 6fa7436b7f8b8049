package syslog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

func setupSyslogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS system_logs (
  id TEXT PRIMARY KEY,
  block_index INTEGER NOT NULL,
  action TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT 'system',
  actor_id TEXT,
  target_user_id TEXT,
  description TEXT NOT NULL,
  ip_address TEXT,
  metadata TEXT,
  timestamp DATETIME NOT NULL,
  previous_hash TEXT NOT NULL,
  current_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT '',
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  must_change_password INTEGER NOT NULL DEFAULT 0,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedLogEntry(t *testing.T, repo Repository, blockIndex int64, action enums.LogAction, actorID *uuid.UUID, description string) {
	t.Helper()
	entry := &models.SystemLog{
		ID:           uuid.New(),
		BlockIndex:   blockIndex,
		Action:       action,
		Category:     enums.CategoryForAction(action),
		ActorID:      actorID,
		Description:  description,
		Timestamp:    time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC).Add(time.Duration(blockIndex) * time.Minute),
		PreviousHash: GenesisHash,
		CurrentHash:  GenesisHash,
	}
	require.NoError(t, repo.Create(context.Background(), entry))
}

func TestSystemLogsRepoSearchMatchesActorIdentity(t *testing.T) {
	db := setupSyslogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	actor := &models.User{
		ID:        uuid.New(),
		Username:  "nimal.perera",
		Email:     "nimal.perera@example.test",
		FirstName: "Nimal",
		LastName:  "Perera",
	}
	other := &models.User{
		ID:        uuid.New(),
		Username:  "kamala.silva",
		Email:     "kamala.silva@example.test",
		FirstName: "Kamala",
		LastName:  "Silva",
	}
	require.NoError(t, db.Create(actor).Error)
	require.NoError(t, db.Create(other).Error)

	seedLogEntry(t, repo, 100, enums.LogActionUserLogin, &actor.ID, "User login")
	seedLogEntry(t, repo, 101, enums.LogActionProjectCreated, &other.ID, "Project 'Dondra Lighthouse' created")
	seedLogEntry(t, repo, 102, enums.LogActionChainVerified, nil, "Scheduled verification run")

	// Actor username, not just the description, satisfies the search.
	entries, total, err := repo.List(ctx, ListFilters{Search: "NIMAL"}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(100), entries[0].BlockIndex)

	entries, total, err = repo.List(ctx, ListFilters{Search: "perera"}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(100), entries[0].BlockIndex)

	entries, total, err = repo.List(ctx, ListFilters{Search: "lighthouse"}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(101), entries[0].BlockIndex)

	_, total, err = repo.List(ctx, ListFilters{Search: "dondra", Action: string(enums.LogActionUserLogin)}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}
