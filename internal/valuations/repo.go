package valuations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

// ListFilters narrows valuation listings.
type ListFilters struct {
	ProjectID      *uuid.UUID
	FieldOfficerID *uuid.UUID
	Status         *enums.ValuationStatus
	Category       *enums.ValuationCategory
}

// Repository manages persistence for valuations and their review trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, valuation *models.Valuation) error
	Find(ctx context.Context, id uuid.UUID) (*models.Valuation, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from []enums.ValuationStatus, updates map[string]any) (int64, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Valuation, int64, error)

	CreateHistory(ctx context.Context, entry *models.ValuationHistory) error
	ListHistory(ctx context.Context, valuationID uuid.UUID) ([]models.ValuationHistory, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a valuations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, valuation *models.Valuation) error {
	return r.db.WithContext(ctx).Create(valuation).Error
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Valuation, error) {
	var valuation models.Valuation
	err := r.db.WithContext(ctx).First(&valuation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &valuation, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Valuation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateStatus applies updates only while the row is still in one of the
// expected statuses. Zero rows affected means a concurrent reviewer won.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from []enums.ValuationStatus, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Valuation{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Valuation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Valuation{})

	if filters.ProjectID != nil {
		query = query.Where("project_id = ?", *filters.ProjectID)
	}
	if filters.FieldOfficerID != nil {
		query = query.Where("field_officer_id = ?", *filters.FieldOfficerID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := params.Normalize()
	var items []models.Valuation
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(normalized.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) CreateHistory(ctx context.Context, entry *models.ValuationHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListHistory(ctx context.Context, valuationID uuid.UUID) ([]models.ValuationHistory, error) {
	var entries []models.ValuationHistory
	err := r.db.WithContext(ctx).
		Where("valuation_id = ?", valuationID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
