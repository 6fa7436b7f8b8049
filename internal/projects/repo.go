package projects

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

// ListFilters narrows project listings.
type ListFilters struct {
	Status        *enums.ProjectStatus
	CoordinatorID *uuid.UUID
	MemberID      *uuid.UUID
	Search        string
}

// Repository manages persistence for projects, their payments, status
// history and cancellation requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateProject(ctx context.Context, project *models.Project) error
	FindProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindProjectForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateProjectStatus(ctx context.Context, id uuid.UUID, from []enums.ProjectStatus, updates map[string]any) (int64, error)
	ListProjects(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Project, int64, error)

	CreateStatusHistory(ctx context.Context, entry *models.ProjectStatusHistory) error
	ListStatusHistory(ctx context.Context, projectID uuid.UUID) ([]models.ProjectStatusHistory, error)

	CreatePayment(ctx context.Context, payment *models.ProjectPayment) error
	FindPaymentByProject(ctx context.Context, projectID uuid.UUID) (*models.ProjectPayment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from []enums.PaymentStatus, updates map[string]any) (int64, error)

	CreateCancellation(ctx context.Context, request *models.ProjectCancellationRequest) error
	FindCancellation(ctx context.Context, id uuid.UUID) (*models.ProjectCancellationRequest, error)
	HasPendingCancellation(ctx context.Context, projectID uuid.UUID) (bool, error)
	UpdateCancellationStatus(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	ListCancellations(ctx context.Context, status *enums.CancellationStatus, params pagination.Params) ([]models.ProjectCancellationRequest, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a projects repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateProject(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *repository) FindProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) FindProjectForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) UpdateProject(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateProjectStatus applies updates only while the row is still in one
// of the expected statuses. Zero rows affected means the project moved
// underneath the caller.
func (r *repository) UpdateProjectStatus(ctx context.Context, id uuid.UUID, from []enums.ProjectStatus, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) ListProjects(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CoordinatorID != nil {
		query = query.Where("coordinator_id = ?", *filters.CoordinatorID)
	}
	if filters.MemberID != nil {
		member := *filters.MemberID
		query = query.Where(
			"coordinator_id = ? OR assigned_field_officer_id = ? OR assigned_client_id = ? OR assigned_agent_id = ? OR assigned_accessor_id = ? OR assigned_senior_valuer_id = ?",
			member, member, member, member, member, member,
		)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := params.Normalize()
	var items []models.Project
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(normalized.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) CreateStatusHistory(ctx context.Context, entry *models.ProjectStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListStatusHistory(ctx context.Context, projectID uuid.UUID) ([]models.ProjectStatusHistory, error) {
	var entries []models.ProjectStatusHistory
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.ProjectPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) FindPaymentByProject(ctx context.Context, projectID uuid.UUID) (*models.ProjectPayment, error) {
	var payment models.ProjectPayment
	err := r.db.WithContext(ctx).First(&payment, "project_id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from []enums.PaymentStatus, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectPayment{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateCancellation(ctx context.Context, request *models.ProjectCancellationRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindCancellation(ctx context.Context, id uuid.UUID) (*models.ProjectCancellationRequest, error) {
	var request models.ProjectCancellationRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) HasPendingCancellation(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProjectCancellationRequest{}).
		Where("project_id = ? AND status = ?", projectID, enums.CancellationStatusPending).
		Count(&count).Error
	return count > 0, err
}

// UpdateCancellationStatus resolves a request only while it is still
// pending.
func (r *repository) UpdateCancellationStatus(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectCancellationRequest{}).
		Where("id = ? AND status = ?", id, enums.CancellationStatusPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) ListCancellations(ctx context.Context, status *enums.CancellationStatus, params pagination.Params) ([]models.ProjectCancellationRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProjectCancellationRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := params.Normalize()
	var items []models.ProjectCancellationRequest
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(normalized.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
