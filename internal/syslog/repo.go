package syslog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

// ListFilters narrows the audit log listing.
type ListFilters struct {
	Category string
	Action   string
	Search   string
}

// Repository manages persistence for audit chain entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.SystemLog) error
	FindLast(ctx context.Context) (*models.SystemLog, error)
	ListAscending(ctx context.Context) ([]models.SystemLog, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.SystemLog, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an audit log repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.SystemLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindLast returns the highest-index entry, locking it when called inside a
// transaction so two appenders cannot observe the same tail.
func (r *repository) FindLast(ctx context.Context) (*models.SystemLog, error) {
	var entry models.SystemLog
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("block_index DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListAscending(ctx context.Context) ([]models.SystemLog, error) {
	var entries []models.SystemLog
	if err := r.db.WithContext(ctx).
		Order("block_index ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.SystemLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SystemLog{})

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.Search != "" {
		like := "%" + strings.ToLower(filters.Search) + "%"
		// The search also resolves actor identity, so an auditor can pull
		// every block a given user produced.
		query = query.Where(
			"LOWER(description) LIKE ? OR actor_id IN (SELECT id FROM users WHERE LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := params.Normalize()
	var entries []models.SystemLog
	if err := query.
		Order("block_index DESC").
		Offset(params.Offset()).
		Limit(normalized.PageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
