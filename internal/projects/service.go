package projects

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
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput captures a new project from its coordinator.
type CreateInput struct {
	Title          string
	Description    string
	Priority       enums.Priority
	CoordinatorID  uuid.UUID
	EstimatedValue decimal.Decimal
	HasAgent       bool
	StartDate      *time.Time
	EndDate        *time.Time
}

// AssignInput updates the project's team. Nil fields are left untouched.
type AssignInput struct {
	FieldOfficerID *uuid.UUID
	ClientID       *uuid.UUID
	AgentID        *uuid.UUID
	AccessorID     *uuid.UUID
	SeniorValuerID *uuid.UUID
	HasAgent       *bool
}

// Service exposes the project lifecycle: creation, team assignment, MD/GM
// approval, the payment cycle, start/complete transitions and the
// cancellation workflow.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[models.Project], error)
	StatusHistory(ctx context.Context, projectID uuid.UUID) ([]models.ProjectStatusHistory, error)
	RecordStatusNote(ctx context.Context, projectID, actorID uuid.UUID, note string) error
	Assign(ctx context.Context, projectID, actorID uuid.UUID, input AssignInput) (*models.Project, error)

	MDGMApprove(ctx context.Context, projectID, actorID uuid.UUID) (*models.Project, error)
	MDGMReject(ctx context.Context, projectID, actorID uuid.UUID, reason string) (*models.Project, error)

	Payment(ctx context.Context, projectID uuid.UUID) (*models.ProjectPayment, error)
	SendPaymentRequest(ctx context.Context, projectID, actorID uuid.UUID, instructions string) (*models.ProjectPayment, error)
	SubmitBankSlip(ctx context.Context, projectID, actorID uuid.UUID, slipPath, clientNotes string) (*models.ProjectPayment, error)
	ApprovePayment(ctx context.Context, projectID, actorID uuid.UUID, notes string) (*models.ProjectPayment, error)
	RejectPayment(ctx context.Context, projectID, actorID uuid.UUID, reason string) (*models.ProjectPayment, error)

	Start(ctx context.Context, projectID, actorID uuid.UUID) (*models.Project, error)
	Complete(ctx context.Context, projectID, actorID uuid.UUID) (*models.Project, error)

	RequestCancellation(ctx context.Context, projectID, actorID uuid.UUID, reason string) (*models.ProjectCancellationRequest, error)
	ApproveCancellation(ctx context.Context, requestID, actorID uuid.UUID, remarks string) (*models.ProjectCancellationRequest, error)
	RejectCancellation(ctx context.Context, requestID, actorID uuid.UUID, remarks string) (*models.ProjectCancellationRequest, error)
	ListCancellations(ctx context.Context, status *enums.CancellationStatus, params pagination.Params) (pagination.Page[models.ProjectCancellationRequest], error)
}

type service struct {
	repo     Repository
	tx       txRunner
	recorder syslog.Recorder
	notifier notifications.Service
	now      func() time.Time
}

// NewService wires the projects service. The notifier is optional.
func NewService(repo Repository, tx txRunner, recorder syslog.Recorder, notifier notifications.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("projects repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		recorder: recorder,
		notifier: notifier,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.CoordinatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinator is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown priority").WithDetails(map[string]any{"priority": priority})
	}
	if input.EstimatedValue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated value cannot be negative")
	}

	project := &models.Project{
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Priority:       priority,
		Status:         enums.ProjectStatusPending,
		CoordinatorID:  input.CoordinatorID,
		HasAgent:       input.HasAgent,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		EstimatedValue: input.EstimatedValue,
	}

	// The project, its payment row and the first history entry commit
	// together, so a project can never exist without its payment record.
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateProject(ctx, project); err != nil {
			return err
		}
		payment := &models.ProjectPayment{
			ProjectID:      project.ID,
			EstimatedValue: input.EstimatedValue,
			Status:         enums.PaymentStatusPending,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return err
		}
		return repo.CreateStatusHistory(ctx, &models.ProjectStatusHistory{
			ProjectID:   project.ID,
			Status:      enums.ProjectStatusPending,
			Notes:       "Project created",
			CreatedByID: &input.CoordinatorID,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionProjectCreated,
		ActorID:     &input.CoordinatorID,
		Description: fmt.Sprintf("Project '%s' created", project.Title),
	})
	return project, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.FindProject(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	if project == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
	}
	return project, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (pagination.Page[models.Project], error) {
	items, total, err := s.repo.ListProjects(ctx, filters, params)
	if err != nil {
		return pagination.Page[models.Project]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) StatusHistory(ctx context.Context, projectID uuid.UUID) ([]models.ProjectStatusHistory, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListStatusHistory(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list status history")
	}
	return entries, nil
}

// RecordStatusNote appends a display entry to the project's history trail
// without changing its status. Review milestones of a project's
// valuations land here so the coordinator sees them on the timeline.
func (s *service) RecordStatusNote(ctx context.Context, projectID, actorID uuid.UUID, note string) error {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	err = s.repo.CreateStatusHistory(ctx, &models.ProjectStatusHistory{
		ProjectID:   projectID,
		Status:      project.Status,
		Notes:       note,
		CreatedByID: &actorID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record project note")
	}
	return nil
}

func (s *service) Assign(ctx context.Context, projectID, actorID uuid.UUID, input AssignInput) (*models.Project, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "project is closed").
			WithDetails(map[string]any{"status": project.Status})
	}

	updates := map[string]any{}
	var changed []string
	if input.FieldOfficerID != nil {
		updates["assigned_field_officer_id"] = *input.FieldOfficerID
		changed = append(changed, "field officer")
	}
	if input.ClientID != nil {
		updates["assigned_client_id"] = *input.ClientID
		changed = append(changed, "client")
	}
	if input.AgentID != nil {
		updates["assigned_agent_id"] = *input.AgentID
		changed = append(changed, "agent")
	}
	if input.AccessorID != nil {
		updates["assigned_accessor_id"] = *input.AccessorID
		changed = append(changed, "accessor")
	}
	if input.SeniorValuerID != nil {
		updates["assigned_senior_valuer_id"] = *input.SeniorValuerID
		changed = append(changed, "senior valuer")
	}
	if input.HasAgent != nil {
		updates["has_agent"] = *input.HasAgent
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.repo.UpdateProject(ctx, projectID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignments")
	}

	description := fmt.Sprintf("Project '%s' updated", project.Title)
	if len(changed) > 0 {
		description = fmt.Sprintf("Project '%s': assigned %s", project.Title, strings.Join(changed, ", "))
	}
	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionProjectUpdated,
		ActorID:     &actorID,
		Description: description,
	})
	return s.Get(ctx, projectID)
}

func (s *service) MDGMApprove(ctx context.Context, projectID, actorID uuid.UUID) (*models.Project, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.MDGMApprovalStatus != enums.ApprovalStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "project already reviewed").
			WithDetails(map[string]any{"approval_status": project.MDGMApprovalStatus})
	}

	now := s.now().UTC()
	updates := map[string]any{
		"md_gm_approval_status":  enums.ApprovalStatusApproved,
		"md_gm_approved_at":      now,
		"md_gm_rejection_reason": nil,
	}
	if err := s.repo.UpdateProject(ctx, projectID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve project")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionProjectApproved,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Project '%s' approved by MD/GM", project.Title),
	})
	s.notify(ctx, project.CoordinatorID, notifications.Notice{
		Title:     "Project approved",
		Message:   fmt.Sprintf("Project '%s' was approved by MD/GM.", project.Title),
		Type:      enums.NotificationTypeApproval,
		ProjectID: &project.ID,
	})
	return s.Get(ctx, projectID)
}

func (s *service) MDGMReject(ctx context.Context, projectID, actorID uuid.UUID, reason string) (*models.Project, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.MDGMApprovalStatus != enums.ApprovalStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "project already reviewed").
			WithDetails(map[string]any{"approval_status": project.MDGMApprovalStatus})
	}

	now := s.now().UTC()
	updates := map[string]any{
		"md_gm_approval_status":  enums.ApprovalStatusRejected,
		"md_gm_rejected_at":      now,
		"md_gm_rejection_reason": reason,
	}
	if err := s.repo.UpdateProject(ctx, projectID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject project")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionProjectRejected,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Project '%s' rejected by MD/GM: %s", project.Title, reason),
	})
	s.notify(ctx, project.CoordinatorID, notifications.Notice{
		Title:     "Project rejected",
		Message:   fmt.Sprintf("Project '%s' was rejected by MD/GM: %s", project.Title, reason),
		Type:      enums.NotificationTypeRejection,
		ProjectID: &project.ID,
	})
	return s.Get(ctx, projectID)
}

func (s *service) Payment(ctx context.Context, projectID uuid.UUID) (*models.ProjectPayment, error) {
	payment, err := s.repo.FindPaymentByProject(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return payment, nil
}

func (s *service) SendPaymentRequest(ctx context.Context, projectID, actorID uuid.UUID, instructions string) (*models.ProjectPayment, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	payment, err := s.Payment(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updates := map[string]any{
		"status":               enums.PaymentStatusRequested,
		"requested_at":         now,
		"requested_by_id":      actorID,
		"payment_instructions": strings.TrimSpace(instructions),
	}
	affected, err := s.repo.UpdatePaymentStatus(ctx, payment.ID,
		[]enums.PaymentStatus{enums.PaymentStatusPending, enums.PaymentStatusRejected}, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request payment")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment cannot be requested in its current status").
			WithDetails(map[string]any{"status": payment.Status})
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionPaymentRequestSent,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Payment request sent for project '%s'", project.Title),
	})
	if project.AssignedClient != nil {
		s.notify(ctx, *project.AssignedClient, notifications.Notice{
			Title:     "Payment requested",
			Message:   fmt.Sprintf("A payment of %s is requested for project '%s'.", payment.EstimatedValue.StringFixed(2), project.Title),
			Type:      enums.NotificationTypeSubmission,
			ProjectID: &project.ID,
		})
	}
	return s.Payment(ctx, projectID)
}

func (s *service) SubmitBankSlip(ctx context.Context, projectID, actorID uuid.UUID, slipPath, clientNotes string) (*models.ProjectPayment, error) {
	slipPath = strings.TrimSpace(slipPath)
	if slipPath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bank slip is required")
	}
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	payment, err := s.Payment(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updates := map[string]any{
		"status":                   enums.PaymentStatusSubmitted,
		"bank_slip_path":           slipPath,
		"bank_slip_uploaded_at":    now,
		"bank_slip_uploaded_by_id": actorID,
		"client_notes":             strings.TrimSpace(clientNotes),
	}
	affected, err := s.repo.UpdatePaymentStatus(ctx, payment.ID,
		[]enums.PaymentStatus{enums.PaymentStatusRequested, enums.PaymentStatusRejected}, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit bank slip")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "bank slip cannot be submitted in the current payment status").
			WithDetails(map[string]any{"status": payment.Status})
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionBankSlipUploaded,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Bank slip uploaded for project '%s'", project.Title),
	})
	s.notify(ctx, project.CoordinatorID, notifications.Notice{
		Title:     "Bank slip uploaded",
		Message:   fmt.Sprintf("A bank slip was uploaded for project '%s'.", project.Title),
		Type:      enums.NotificationTypeSubmission,
		ProjectID: &project.ID,
	})
	return s.Payment(ctx, projectID)
}

func (s *service) ApprovePayment(ctx context.Context, projectID, actorID uuid.UUID, notes string) (*models.ProjectPayment, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	payment, err := s.Payment(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updates := map[string]any{
		"status":            enums.PaymentStatusApproved,
		"approved_at":       now,
		"approved_by_id":    actorID,
		"coordinator_notes": strings.TrimSpace(notes),
		"rejection_reason":  nil,
	}
	// Payment approval and the project's payment_completed flag commit
	// together.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		affected, err := repo.UpdatePaymentStatus(ctx, payment.ID,
			[]enums.PaymentStatus{enums.PaymentStatusSubmitted}, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only a submitted payment can be approved").
				WithDetails(map[string]any{"status": payment.Status})
		}
		return repo.UpdateProject(ctx, projectID, map[string]any{"payment_completed": true})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve payment")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionPaymentApproved,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Payment approved for project '%s'", project.Title),
	})
	if project.AssignedClient != nil {
		s.notify(ctx, *project.AssignedClient, notifications.Notice{
			Title:     "Payment approved",
			Message:   fmt.Sprintf("Your payment for project '%s' was approved.", project.Title),
			Type:      enums.NotificationTypeApproval,
			ProjectID: &project.ID,
		})
	}
	return s.Payment(ctx, projectID)
}

func (s *service) RejectPayment(ctx context.Context, projectID, actorID uuid.UUID, reason string) (*models.ProjectPayment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	payment, err := s.Payment(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updates := map[string]any{
		"status":           enums.PaymentStatusRejected,
		"rejection_reason": reason,
		"rejection_count":  gorm.Expr("rejection_count + 1"),
		"last_rejected_at": now,
	}
	affected, err := s.repo.UpdatePaymentStatus(ctx, payment.ID,
		[]enums.PaymentStatus{enums.PaymentStatusSubmitted}, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject payment")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only a submitted payment can be rejected").
			WithDetails(map[string]any{"status": payment.Status})
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionPaymentRejected,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Payment rejected for project '%s': %s", project.Title, reason),
	})
	if project.AssignedClient != nil {
		s.notify(ctx, *project.AssignedClient, notifications.Notice{
			Title:     "Payment rejected",
			Message:   fmt.Sprintf("Your payment for project '%s' was rejected: %s", project.Title, reason),
			Type:      enums.NotificationTypeRejection,
			ProjectID: &project.ID,
		})
	}
	return s.Payment(ctx, projectID)
}

// Start moves a pending project to in_progress. Every unmet precondition
// is reported at once so the coordinator can fix them in one pass. The
// readiness checks and the transition run against a locked row, so an
// assignment or payment revert cannot slip in between them.
func (s *service) Start(ctx context.Context, projectID, actorID uuid.UUID) (*models.Project, error) {
	var title string
	now := s.now().UTC()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		project, err := repo.FindProjectForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		title = project.Title
		if project.Status != enums.ProjectStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only a pending project can be started").
				WithDetails(map[string]any{"status": project.Status})
		}

		var missing []string
		if !project.PaymentCompleted {
			missing = append(missing, "payment is not approved")
		}
		if project.AssignedFieldOfficer == nil {
			missing = append(missing, "no field officer assigned")
		}
		if project.AssignedClient == nil {
			missing = append(missing, "no client assigned")
		}
		if project.AssignedAccessor == nil {
			missing = append(missing, "no accessor assigned")
		}
		if project.AssignedSeniorValuer == nil {
			missing = append(missing, "no senior valuer assigned")
		}
		if project.HasAgent && project.AssignedAgent == nil {
			missing = append(missing, "no agent assigned")
		}
		if len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "project is not ready to start").
				WithDetails(map[string]any{"reasons": missing})
		}

		affected, err := repo.UpdateProjectStatus(ctx, projectID,
			[]enums.ProjectStatus{enums.ProjectStatusPending},
			map[string]any{"status": enums.ProjectStatusInProgress, "start_date": now})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "project status changed, retry")
		}
		return repo.CreateStatusHistory(ctx, &models.ProjectStatusHistory{
			ProjectID:   projectID,
			Status:      enums.ProjectStatusInProgress,
			Notes:       "Project started",
			CreatedByID: &actorID,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start project")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionProjectStarted,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Project '%s' started", title),
	})
	return s.Get(ctx, projectID)
}

func (s *service) Complete(ctx context.Context, projectID, actorID uuid.UUID) (*models.Project, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != enums.ProjectStatusInProgress {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only an in-progress project can be completed").
			WithDetails(map[string]any{"status": project.Status})
	}

	now := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		affected, err := repo.UpdateProjectStatus(ctx, projectID,
			[]enums.ProjectStatus{enums.ProjectStatusInProgress},
			map[string]any{"status": enums.ProjectStatusCompleted, "end_date": now})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "project status changed, retry")
		}
		return repo.CreateStatusHistory(ctx, &models.ProjectStatusHistory{
			ProjectID:   projectID,
			Status:      enums.ProjectStatusCompleted,
			Notes:       "Project completed",
			CreatedByID: &actorID,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete project")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionProjectCompleted,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Project '%s' completed", project.Title),
	})
	return s.Get(ctx, projectID)
}

func (s *service) RequestCancellation(ctx context.Context, projectID, actorID uuid.UUID, reason string) (*models.ProjectCancellationRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CoordinatorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the project coordinator can request cancellation")
	}
	if project.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "project is already closed").
			WithDetails(map[string]any{"status": project.Status})
	}

	request := &models.ProjectCancellationRequest{
		ProjectID:     projectID,
		RequestedByID: actorID,
		Reason:        reason,
		Status:        enums.CancellationStatusPending,
	}
	// A partial unique index backs the one-pending-request rule; the
	// pre-check keeps the common path on a friendly error.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pending, err := repo.HasPendingCancellation(ctx, projectID)
		if err != nil {
			return err
		}
		if pending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "a cancellation request is already pending for this project")
		}
		return repo.CreateCancellation(ctx, request)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request cancellation")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionCancellationRequested,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Cancellation requested for project '%s': %s", project.Title, reason),
	})
	return request, nil
}

// ApproveCancellation resolves a pending request and cancels the project.
// The reviewer must not be the requester.
func (s *service) ApproveCancellation(ctx context.Context, requestID, actorID uuid.UUID, remarks string) (*models.ProjectCancellationRequest, error) {
	request, err := s.findPendingCancellation(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequestedByID == actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "a cancellation request cannot be reviewed by its requester")
	}
	project, err := s.Get(ctx, request.ProjectID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	remarks = strings.TrimSpace(remarks)
	updates := map[string]any{
		"status":         enums.CancellationStatusApproved,
		"reviewed_by_id": actorID,
		"reviewed_at":    now,
	}
	if remarks != "" {
		updates["admin_remarks"] = remarks
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		affected, err := repo.UpdateCancellationStatus(ctx, requestID, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation request already resolved")
		}
		affected, err = repo.UpdateProjectStatus(ctx, request.ProjectID,
			[]enums.ProjectStatus{enums.ProjectStatusPending, enums.ProjectStatusInProgress},
			map[string]any{"status": enums.ProjectStatusCancelled})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "project is already closed")
		}
		return repo.CreateStatusHistory(ctx, &models.ProjectStatusHistory{
			ProjectID:   request.ProjectID,
			Status:      enums.ProjectStatusCancelled,
			Notes:       "Cancellation approved",
			CreatedByID: &actorID,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve cancellation")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionCancellationApproved,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Cancellation approved for project '%s'", project.Title),
	})
	s.notify(ctx, request.RequestedByID, notifications.Notice{
		Title:     "Cancellation approved",
		Message:   fmt.Sprintf("Your cancellation request for project '%s' was approved.", project.Title),
		Type:      enums.NotificationTypeApproval,
		ProjectID: &project.ID,
	})
	// Everyone working the project hears that it is gone, not just the
	// requesting coordinator.
	for _, assigned := range []*uuid.UUID{
		project.AssignedFieldOfficer,
		project.AssignedClient,
		project.AssignedAccessor,
		project.AssignedSeniorValuer,
		project.AssignedAgent,
	} {
		if assigned == nil || *assigned == request.RequestedByID {
			continue
		}
		s.notify(ctx, *assigned, notifications.Notice{
			Title:     "Project cancelled",
			Message:   fmt.Sprintf("Project '%s' was cancelled.", project.Title),
			Type:      enums.NotificationTypeApproval,
			ProjectID: &project.ID,
		})
	}
	return s.repo.FindCancellation(ctx, requestID)
}

func (s *service) RejectCancellation(ctx context.Context, requestID, actorID uuid.UUID, remarks string) (*models.ProjectCancellationRequest, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin remarks are required when rejecting")
	}
	request, err := s.findPendingCancellation(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequestedByID == actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "a cancellation request cannot be reviewed by its requester")
	}
	project, err := s.Get(ctx, request.ProjectID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	affected, err := s.repo.UpdateCancellationStatus(ctx, requestID, map[string]any{
		"status":         enums.CancellationStatusRejected,
		"reviewed_by_id": actorID,
		"reviewed_at":    now,
		"admin_remarks":  remarks,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject cancellation")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation request already resolved")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionCancellationRejected,
		ActorID:     &actorID,
		Description: fmt.Sprintf("Cancellation rejected for project '%s': %s", project.Title, remarks),
	})
	s.notify(ctx, request.RequestedByID, notifications.Notice{
		Title:     "Cancellation rejected",
		Message:   fmt.Sprintf("Your cancellation request for project '%s' was rejected: %s", project.Title, remarks),
		Type:      enums.NotificationTypeRejection,
		ProjectID: &project.ID,
	})
	return s.repo.FindCancellation(ctx, requestID)
}

func (s *service) ListCancellations(ctx context.Context, status *enums.CancellationStatus, params pagination.Params) (pagination.Page[models.ProjectCancellationRequest], error) {
	items, total, err := s.repo.ListCancellations(ctx, status, params)
	if err != nil {
		return pagination.Page[models.ProjectCancellationRequest]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cancellation requests")
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) findPendingCancellation(ctx context.Context, requestID uuid.UUID) (*models.ProjectCancellationRequest, error) {
	request, err := s.repo.FindCancellation(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cancellation request")
	}
	if request == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cancellation request not found")
	}
	if request.Status != enums.CancellationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation request already resolved").
			WithDetails(map[string]any{"status": request.Status})
	}
	return request, nil
}

func (s *service) notify(ctx context.Context, userID uuid.UUID, notice notifications.Notice) {
	if s.notifier == nil || userID == uuid.Nil {
		return
	}
	notice.UserID = userID
	s.notifier.Notify(ctx, notice)
}
