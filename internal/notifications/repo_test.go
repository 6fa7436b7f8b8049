package notifications

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

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'rejection',
  is_read INTEGER NOT NULL DEFAULT 0,
  valuation_id TEXT,
  project_id TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedNotification(t *testing.T, repo Repository, userID uuid.UUID, title string, read bool, at time.Time) *models.Notification {
	t.Helper()
	notification := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   "message for " + title,
		Type:      enums.NotificationTypeSubmission,
		IsRead:    read,
		CreatedAt: at,
	}
	require.NoError(t, repo.Create(context.Background(), notification))
	return notification
}

func TestNotificationsRepoListAndCount(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()

	userA := uuid.New()
	userB := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	seedNotification(t, repo, userA, "oldest", true, base)
	seedNotification(t, repo, userA, "middle", false, base.Add(time.Minute))
	newest := seedNotification(t, repo, userA, "newest", false, base.Add(2*time.Minute))
	seedNotification(t, repo, userB, "other user", false, base)

	items, total, err := repo.ListByUser(ctx, userA, pagination.Params{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, newest.ID, items[0].ID)
	assert.Equal(t, "middle", items[1].Title)

	unread, err := repo.CountUnread(ctx, userA)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
}

func TestNotificationsRepoMarkRead(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()

	userA := uuid.New()
	userB := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := seedNotification(t, repo, userA, "first", false, base)
	seedNotification(t, repo, userA, "second", false, base.Add(time.Minute))

	// another user's id must not flip the row
	rows, err := repo.MarkRead(ctx, userB, first.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = repo.MarkRead(ctx, userA, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	unread, err := repo.CountUnread(ctx, userA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	rows, err = repo.MarkAllRead(ctx, userA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	unread, err = repo.CountUnread(ctx, userA)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
