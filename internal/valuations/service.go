package valuations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/notifications"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/syslog"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/config"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// projectSource is the slice of the projects service the review workflow
// needs: loading a project to check its status and team, and appending a
// display note to the project's own history trail.
type projectSource interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	RecordStatusNote(ctx context.Context, projectID, actorID uuid.UUID, note string) error
}

// Details carries the category-specific fields of a valuation report.
type Details struct {
	LandArea      *decimal.Decimal
	LandType      string
	LandLocation  string
	LandLatitude  *decimal.Decimal
	LandLongitude *decimal.Decimal

	BuildingArea      *decimal.Decimal
	BuildingType      string
	BuildingLocation  string
	BuildingLatitude  *decimal.Decimal
	BuildingLongitude *decimal.Decimal
	NumberOfFloors    *int
	YearBuilt         *int

	VehicleMake         string
	VehicleModel        string
	VehicleYear         *int
	VehicleRegistration string
	VehicleMileage      *int
	VehicleCondition    string

	OtherType           string
	OtherSpecifications string
}

// CreateInput captures a new draft valuation from a field officer.
type CreateInput struct {
	ProjectID      uuid.UUID
	FieldOfficerID uuid.UUID
	Category       enums.ValuationCategory
	Description    string
	EstimatedValue *decimal.Decimal
	Notes          string
	Details        Details
}

// UpdateInput modifies a draft, rejected or recently submitted valuation.
// Nil fields are left untouched; a non-nil Details replaces the whole
// category-specific group.
type UpdateInput struct {
	Description    *string
	EstimatedValue *decimal.Decimal
	Notes          *string
	Details        *Details
}

// Service exposes the valuation review workflow: field officer drafting
// and submission, accessor review, senior valuer approval and the final
// MD/GM sign-off.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Valuation, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Valuation, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[models.Valuation], error)
	History(ctx context.Context, valuationID uuid.UUID) ([]models.ValuationHistory, error)

	Update(ctx context.Context, valuationID, actorID uuid.UUID, input UpdateInput) (*models.Valuation, error)
	Submit(ctx context.Context, valuationID, actorID uuid.UUID, reportPath string) (*models.Valuation, error)

	AccessorAccept(ctx context.Context, valuationID, actorID uuid.UUID, comments string) (*models.Valuation, error)
	AccessorReject(ctx context.Context, valuationID, actorID uuid.UUID, reason string) (*models.Valuation, error)
	SVApprove(ctx context.Context, valuationID, actorID uuid.UUID, comments, finalReportPath string) (*models.Valuation, error)
	SVReject(ctx context.Context, valuationID, actorID uuid.UUID, reason string) (*models.Valuation, error)
	MDGMApprove(ctx context.Context, valuationID, actorID uuid.UUID, comments string) (*models.Valuation, error)
	MDGMReject(ctx context.Context, valuationID, actorID uuid.UUID, reason string) (*models.Valuation, error)
}

type service struct {
	repo       Repository
	projects   projectSource
	tx         txRunner
	recorder   syslog.Recorder
	notifier   notifications.Service
	editWindow time.Duration
	now        func() time.Time
}

// NewService wires the valuations service. The notifier is optional.
func NewService(repo Repository, projects projectSource, tx txRunner, recorder syslog.Recorder, notifier notifications.Service, cfg config.ValuationsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("valuations repository required")
	}
	if projects == nil {
		return nil, fmt.Errorf("project source required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	editWindow := cfg.EditWindow
	if editWindow <= 0 {
		editWindow = 2 * time.Hour
	}
	return &service{
		repo:       repo,
		projects:   projects,
		tx:         tx,
		recorder:   recorder,
		notifier:   notifier,
		editWindow: editWindow,
		now:        time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Valuation, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown valuation category").
			WithDetails(map[string]any{"category": input.Category})
	}
	if err := validateDetails(input.Category, input.Details); err != nil {
		return nil, err
	}

	project, err := s.projects.Get(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != enums.ProjectStatusInProgress {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "valuations can only be created for an in-progress project").
			WithDetails(map[string]any{"status": project.Status})
	}
	if project.AssignedFieldOfficer == nil || *project.AssignedFieldOfficer != input.FieldOfficerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the project's assigned field officer can create valuations")
	}

	valuation := &models.Valuation{
		ProjectID:      input.ProjectID,
		FieldOfficerID: input.FieldOfficerID,
		Category:       input.Category,
		Status:         enums.ValuationStatusDraft,
		Description:    strings.TrimSpace(input.Description),
		EstimatedValue: input.EstimatedValue,
		Notes:          strings.TrimSpace(input.Notes),
	}
	applyDetails(valuation, input.Details)

	if err := s.repo.Create(ctx, valuation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create valuation")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionValuationCreated,
		ActorID:     &input.FieldOfficerID,
		Description: fmt.Sprintf("Valuation (%s) created for project '%s'", valuation.Category, project.Title),
	})
	return valuation, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Valuation, error) {
	valuation, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load valuation")
	}
	if valuation == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "valuation not found")
	}
	return valuation, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[models.Valuation], error) {
	items, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return pagination.Page[models.Valuation]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list valuations")
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) History(ctx context.Context, valuationID uuid.UUID) ([]models.ValuationHistory, error) {
	if _, err := s.Get(ctx, valuationID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListHistory(ctx, valuationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list valuation history")
	}
	return entries, nil
}

// Update edits a report the field officer still owns. Editing a submitted
// report within the edit window or a rejected report pulls it back to
// draft so it re-enters review from the start; the rejected revert also
// clears the recorded reason.
func (s *service) Update(ctx context.Context, valuationID, actorID uuid.UUID, input UpdateInput) (*models.Valuation, error) {
	valuation, err := s.Get(ctx, valuationID)
	if err != nil {
		return nil, err
	}
	if valuation.FieldOfficerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owning field officer can edit a valuation")
	}
	if !valuation.CanBeEdited(s.now().UTC(), s.editWindow) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "valuation can no longer be edited").
			WithDetails(map[string]any{"status": valuation.Status})
	}

	updates := map[string]any{}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.EstimatedValue != nil {
		updates["estimated_value"] = *input.EstimatedValue
	}
	if input.Notes != nil {
		updates["notes"] = strings.TrimSpace(*input.Notes)
	}
	if input.Details != nil {
		if err := validateDetails(valuation.Category, *input.Details); err != nil {
			return nil, err
		}
		detailUpdates(updates, *input.Details)
	}
	if len(updates) == 0 {
		return valuation, nil
	}
	switch valuation.Status {
	case enums.ValuationStatusSubmitted:
		updates["status"] = enums.ValuationStatusDraft
		updates["submitted_at"] = nil
	case enums.ValuationStatusRejected:
		updates["status"] = enums.ValuationStatusDraft
		updates["rejection_reason"] = ""
	}

	if err := s.repo.Update(ctx, valuationID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update valuation")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionValuationUpdated,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Valuation %s updated", valuationID),
	})
	return s.Get(ctx, valuationID)
}

func (s *service) Submit(ctx context.Context, valuationID, actorID uuid.UUID, reportPath string) (*models.Valuation, error) {
	valuation, err := s.Get(ctx, valuationID)
	if err != nil {
		return nil, err
	}
	if valuation.FieldOfficerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owning field officer can submit a valuation")
	}

	// Only a submit that follows a rejection counts as a resubmission;
	// a draft that was pulled back inside the edit window does not.
	action := enums.ValuationHistorySubmitted
	if valuation.Status == enums.ValuationStatusRejected {
		action = enums.ValuationHistoryResubmitted
	}

	now := s.now().UTC()
	updates := map[string]any{
		"status":           enums.ValuationStatusSubmitted,
		"submitted_at":     now,
		"rejection_reason": "",
	}
	if path := strings.TrimSpace(reportPath); path != "" {
		updates["submitted_report_path"] = path
	}

	err = s.transition(ctx, valuationID, actorID,
		[]enums.ValuationStatus{enums.ValuationStatusDraft, enums.ValuationStatusRejected},
		updates, action, "",
		"only a draft or rejected valuation can be submitted")
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionValuationSubmitted,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Valuation %s submitted for review", valuationID),
	})
	return s.Get(ctx, valuationID)
}

func (s *service) AccessorAccept(ctx context.Context, valuationID, actorID uuid.UUID, comments string) (*models.Valuation, error) {
	valuation, err := s.Get(ctx, valuationID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, valuation.ProjectID)
	if err != nil {
		return nil, err
	}
	if !isAssigned(project.AssignedAccessor, actorID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the project's assigned accessor can review this valuation")
	}
	// A review is a hand-off to the senior valuer, so one must exist.
	if project.AssignedSeniorValuer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "project has no senior valuer to review for")
	}

	comments = strings.TrimSpace(comments)
	updates := map[string]any{
		"status":            enums.ValuationStatusReviewed,
		"accessor_comments": comments,
	}
	err = s.transition(ctx, valuationID, actorID,
		[]enums.ValuationStatus{enums.ValuationStatusDraft, enums.ValuationStatusSubmitted},
		updates, enums.ValuationHistoryReviewed, comments,
		"only a draft or submitted valuation can be reviewed")
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionValuationReviewed,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Valuation %s reviewed by accessor", valuationID),
	})
	// The project note is advisory; the review outcome stands even if it
	// cannot be written.
	_ = s.projects.RecordStatusNote(ctx, project.ID, actorID,
		fmt.Sprintf("Valuation (%s) reviewed by accessor", valuation.Category))
	s.notify(ctx, *project.AssignedSeniorValuer, notifications.Notice{
		Title:       "Valuation awaiting approval",
		Message:     fmt.Sprintf("A valuation for project '%s' is ready for senior valuer approval.", project.Title),
		Type:        enums.NotificationTypeSubmission,
		ValuationID: &valuationID,
		ProjectID:   &project.ID,
	})
	return s.Get(ctx, valuationID)
}

func (s *service) AccessorReject(ctx context.Context, valuationID, actorID uuid.UUID, reason string) (*models.Valuation, error) {
	return s.reject(ctx, valuationID, actorID, reason, rejectStage{
		from:         []enums.ValuationStatus{enums.ValuationStatusDraft, enums.ValuationStatusSubmitted, enums.ValuationStatusReviewed},
		action:       enums.ValuationHistoryRejectedByAccessor,
		conflictMsg:  "valuation cannot be rejected by the accessor in its current status",
		reviewer:     func(p *models.Project) *uuid.UUID { return p.AssignedAccessor },
		forbiddenMsg: "only the project's assigned accessor can reject this valuation",
	})
}

func (s *service) SVApprove(ctx context.Context, valuationID, actorID uuid.UUID, comments, finalReportPath string) (*models.Valuation, error) {
	valuation, err := s.Get(ctx, valuationID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, valuation.ProjectID)
	if err != nil {
		return nil, err
	}
	if !isAssigned(project.AssignedSeniorValuer, actorID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the project's assigned senior valuer can approve this valuation")
	}

	comments = strings.TrimSpace(comments)
	updates := map[string]any{
		"status":                 enums.ValuationStatusApproved,
		"senior_valuer_comments": comments,
	}
	if path := strings.TrimSpace(finalReportPath); path != "" {
		updates["final_report_path"] = path
	}

	err = s.transition(ctx, valuationID, actorID,
		[]enums.ValuationStatus{enums.ValuationStatusReviewed},
		updates, enums.ValuationHistoryApprovedBySV, comments,
		"only a reviewed valuation can be approved by the senior valuer")
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionValuationApproved,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Valuation %s approved by senior valuer", valuationID),
	})
	_ = s.projects.RecordStatusNote(ctx, project.ID, actorID,
		fmt.Sprintf("Valuation (%s) approved by senior valuer and sent to MD/GM", valuation.Category))
	return s.Get(ctx, valuationID)
}

func (s *service) SVReject(ctx context.Context, valuationID, actorID uuid.UUID, reason string) (*models.Valuation, error) {
	return s.reject(ctx, valuationID, actorID, reason, rejectStage{
		from:         []enums.ValuationStatus{enums.ValuationStatusReviewed},
		action:       enums.ValuationHistoryRejectedBySV,
		conflictMsg:  "only a reviewed valuation can be rejected by the senior valuer",
		reviewer:     func(p *models.Project) *uuid.UUID { return p.AssignedSeniorValuer },
		forbiddenMsg: "only the project's assigned senior valuer can reject this valuation",
		alsoNotify:   func(p *models.Project) *uuid.UUID { return p.AssignedAccessor },
	})
}

func (s *service) MDGMApprove(ctx context.Context, valuationID, actorID uuid.UUID, comments string) (*models.Valuation, error) {
	comments = strings.TrimSpace(comments)
	updates := map[string]any{
		"status":         enums.ValuationStatusMDApproved,
		"md_gm_comments": comments,
	}
	err := s.transition(ctx, valuationID, actorID,
		[]enums.ValuationStatus{enums.ValuationStatusApproved},
		updates, enums.ValuationHistoryMDApproved, comments,
		"only a senior valuer approved valuation can receive the final sign-off")
	if err != nil {
		return nil, err
	}

	valuation, err := s.Get(ctx, valuationID)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionValuationMDApproved,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Valuation %s received final MD/GM approval", valuationID),
	})
	s.notify(ctx, valuation.FieldOfficerID, notifications.Notice{
		Title:       "Valuation approved",
		Message:     "Your valuation received the final MD/GM approval.",
		Type:        enums.NotificationTypeApproval,
		ValuationID: &valuationID,
		ProjectID:   &valuation.ProjectID,
	})
	return valuation, nil
}

func (s *service) MDGMReject(ctx context.Context, valuationID, actorID uuid.UUID, reason string) (*models.Valuation, error) {
	return s.reject(ctx, valuationID, actorID, reason, rejectStage{
		from:        []enums.ValuationStatus{enums.ValuationStatusApproved},
		action:      enums.ValuationHistoryRejectedByMDGM,
		conflictMsg: "only a senior valuer approved valuation can be rejected by MD/GM",
		alsoNotify:  func(p *models.Project) *uuid.UUID { return p.AssignedSeniorValuer },
	})
}

// rejectStage describes one rejection step: which statuses it may fire
// from, who on the project team may perform it (nil means the role guard
// alone decides, as with MD/GM) and which earlier reviewer hears about it
// besides the owning field officer.
type rejectStage struct {
	from         []enums.ValuationStatus
	action       enums.ValuationHistoryAction
	conflictMsg  string
	reviewer     func(*models.Project) *uuid.UUID
	forbiddenMsg string
	alsoNotify   func(*models.Project) *uuid.UUID
}

// reject is the shared rejection path for all three review stages. The
// reason is mandatory and lands both on the report and in its trail.
func (s *service) reject(ctx context.Context, valuationID, actorID uuid.UUID, reason string, stage rejectStage) (*models.Valuation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}
	valuation, err := s.Get(ctx, valuationID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, valuation.ProjectID)
	if err != nil {
		return nil, err
	}
	if stage.reviewer != nil && !isAssigned(stage.reviewer(project), actorID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, stage.forbiddenMsg)
	}

	updates := map[string]any{
		"status":           enums.ValuationStatusRejected,
		"rejection_reason": reason,
	}
	if err := s.transition(ctx, valuationID, actorID, stage.from, updates, stage.action, reason, stage.conflictMsg); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionValuationRejected,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Valuation %s rejected: %s", valuationID, reason),
	})
	if stage.alsoNotify != nil {
		if reviewer := stage.alsoNotify(project); reviewer != nil {
			s.notify(ctx, *reviewer, notifications.Notice{
				Title:       "Valuation rejected",
				Message:     fmt.Sprintf("A valuation you reviewed for project '%s' was rejected: %s", project.Title, reason),
				Type:        enums.NotificationTypeRejection,
				ValuationID: &valuationID,
				ProjectID:   &valuation.ProjectID,
			})
		}
	}
	s.notify(ctx, valuation.FieldOfficerID, notifications.Notice{
		Title:       "Valuation rejected",
		Message:     fmt.Sprintf("Your valuation was rejected: %s", reason),
		Type:        enums.NotificationTypeRejection,
		ValuationID: &valuationID,
		ProjectID:   &valuation.ProjectID,
	})
	return s.Get(ctx, valuationID)
}

func isAssigned(assigned *uuid.UUID, actorID uuid.UUID) bool {
	return assigned != nil && *assigned == actorID
}

// transition applies a guarded status change and its trail entry in one
// transaction.
func (s *service) transition(ctx context.Context, valuationID, actorID uuid.UUID, from []enums.ValuationStatus, updates map[string]any, action enums.ValuationHistoryAction, comments, conflictMsg string) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		affected, err := repo.UpdateStatus(ctx, valuationID, from, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, conflictMsg)
		}
		return repo.CreateHistory(ctx, &models.ValuationHistory{
			ValuationID:   valuationID,
			Action:        action,
			PerformedByID: &actorID,
			Comments:      comments,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update valuation status")
	}
	return nil
}

func validateDetails(category enums.ValuationCategory, details Details) error {
	var missing string
	switch category {
	case enums.ValuationCategoryLand:
		if strings.TrimSpace(details.LandLocation) == "" {
			missing = "land location is required"
		}
	case enums.ValuationCategoryBuilding:
		if strings.TrimSpace(details.BuildingLocation) == "" {
			missing = "building location is required"
		}
	case enums.ValuationCategoryVehicle:
		if strings.TrimSpace(details.VehicleRegistration) == "" {
			missing = "vehicle registration number is required"
		}
	case enums.ValuationCategoryOther:
		if strings.TrimSpace(details.OtherType) == "" {
			missing = "asset type is required"
		}
	}
	if missing != "" {
		return pkgerrors.New(pkgerrors.CodeValidation, missing)
	}
	return nil
}

func applyDetails(valuation *models.Valuation, details Details) {
	valuation.LandArea = details.LandArea
	valuation.LandType = strings.TrimSpace(details.LandType)
	valuation.LandLocation = strings.TrimSpace(details.LandLocation)
	valuation.LandLatitude = details.LandLatitude
	valuation.LandLongitude = details.LandLongitude

	valuation.BuildingArea = details.BuildingArea
	valuation.BuildingType = strings.TrimSpace(details.BuildingType)
	valuation.BuildingLocation = strings.TrimSpace(details.BuildingLocation)
	valuation.BuildingLatitude = details.BuildingLatitude
	valuation.BuildingLongitude = details.BuildingLongitude
	valuation.NumberOfFloors = details.NumberOfFloors
	valuation.YearBuilt = details.YearBuilt

	valuation.VehicleMake = strings.TrimSpace(details.VehicleMake)
	valuation.VehicleModel = strings.TrimSpace(details.VehicleModel)
	valuation.VehicleYear = details.VehicleYear
	valuation.VehicleRegistration = strings.TrimSpace(details.VehicleRegistration)
	valuation.VehicleMileage = details.VehicleMileage
	valuation.VehicleCondition = strings.TrimSpace(details.VehicleCondition)

	valuation.OtherType = strings.TrimSpace(details.OtherType)
	valuation.OtherSpecifications = strings.TrimSpace(details.OtherSpecifications)
}

func detailUpdates(updates map[string]any, details Details) {
	updates["land_area"] = details.LandArea
	updates["land_type"] = strings.TrimSpace(details.LandType)
	updates["land_location"] = strings.TrimSpace(details.LandLocation)
	updates["land_latitude"] = details.LandLatitude
	updates["land_longitude"] = details.LandLongitude

	updates["building_area"] = details.BuildingArea
	updates["building_type"] = strings.TrimSpace(details.BuildingType)
	updates["building_location"] = strings.TrimSpace(details.BuildingLocation)
	updates["building_latitude"] = details.BuildingLatitude
	updates["building_longitude"] = details.BuildingLongitude
	updates["number_of_floors"] = details.NumberOfFloors
	updates["year_built"] = details.YearBuilt

	updates["vehicle_make"] = strings.TrimSpace(details.VehicleMake)
	updates["vehicle_model"] = strings.TrimSpace(details.VehicleModel)
	updates["vehicle_year"] = details.VehicleYear
	updates["vehicle_registration_number"] = strings.TrimSpace(details.VehicleRegistration)
	updates["vehicle_mileage"] = details.VehicleMileage
	updates["vehicle_condition"] = strings.TrimSpace(details.VehicleCondition)

	updates["other_type"] = strings.TrimSpace(details.OtherType)
	updates["other_specifications"] = strings.TrimSpace(details.OtherSpecifications)
}

func (s *service) notify(ctx context.Context, userID uuid.UUID, notice notifications.Notice) {
	if s.notifier == nil || userID == uuid.Nil {
		return
	}
	notice.UserID = userID
	s.notifier.Notify(ctx, notice)
}
