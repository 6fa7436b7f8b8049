package projects

import (
	"context"
	"testing"
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

type stubProjectRepo struct {
	projects      map[uuid.UUID]*models.Project
	payments      map[uuid.UUID]*models.ProjectPayment
	histories     []models.ProjectStatusHistory
	cancellations map[uuid.UUID]*models.ProjectCancellationRequest
	lockedReads   int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{
		projects:      map[uuid.UUID]*models.Project{},
		payments:      map[uuid.UUID]*models.ProjectPayment{},
		cancellations: map[uuid.UUID]*models.ProjectCancellationRequest{},
	}
}

func (r *stubProjectRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubProjectRepo) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	// Emulate the md_gm_approval_status column default declared on models.Project.
	if project.MDGMApprovalStatus == "" {
		project.MDGMApprovalStatus = enums.ApprovalStatusPending
	}
	r.projects[project.ID] = project
	return nil
}

func (r *stubProjectRepo) FindProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	clone := *project
	return &clone, nil
}

func (r *stubProjectRepo) FindProjectForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	r.lockedReads++
	return r.FindProject(ctx, id)
}

func (r *stubProjectRepo) UpdateProject(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	project, ok := r.projects[id]
	if !ok {
		return nil
	}
	applyProjectUpdates(project, updates)
	return nil
}

func (r *stubProjectRepo) UpdateProjectStatus(ctx context.Context, id uuid.UUID, from []enums.ProjectStatus, updates map[string]any) (int64, error) {
	project, ok := r.projects[id]
	if !ok {
		return 0, nil
	}
	matched := false
	for _, status := range from {
		if project.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return 0, nil
	}
	applyProjectUpdates(project, updates)
	return 1, nil
}

func (r *stubProjectRepo) ListProjects(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Project, int64, error) {
	var items []models.Project
	for _, project := range r.projects {
		items = append(items, *project)
	}
	return items, int64(len(items)), nil
}

func (r *stubProjectRepo) CreateStatusHistory(ctx context.Context, entry *models.ProjectStatusHistory) error {
	r.histories = append(r.histories, *entry)
	return nil
}

func (r *stubProjectRepo) ListStatusHistory(ctx context.Context, projectID uuid.UUID) ([]models.ProjectStatusHistory, error) {
	var entries []models.ProjectStatusHistory
	for _, entry := range r.histories {
		if entry.ProjectID == projectID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *stubProjectRepo) CreatePayment(ctx context.Context, payment *models.ProjectPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.payments[payment.ID] = payment
	return nil
}

func (r *stubProjectRepo) FindPaymentByProject(ctx context.Context, projectID uuid.UUID) (*models.ProjectPayment, error) {
	for _, payment := range r.payments {
		if payment.ProjectID == projectID {
			clone := *payment
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubProjectRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from []enums.PaymentStatus, updates map[string]any) (int64, error) {
	payment, ok := r.payments[id]
	if !ok {
		return 0, nil
	}
	matched := false
	for _, status := range from {
		if payment.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return 0, nil
	}
	applyPaymentUpdates(payment, updates)
	return 1, nil
}

func (r *stubProjectRepo) CreateCancellation(ctx context.Context, request *models.ProjectCancellationRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	r.cancellations[request.ID] = request
	return nil
}

func (r *stubProjectRepo) FindCancellation(ctx context.Context, id uuid.UUID) (*models.ProjectCancellationRequest, error) {
	request, ok := r.cancellations[id]
	if !ok {
		return nil, nil
	}
	clone := *request
	return &clone, nil
}

func (r *stubProjectRepo) HasPendingCancellation(ctx context.Context, projectID uuid.UUID) (bool, error) {
	for _, request := range r.cancellations {
		if request.ProjectID == projectID && request.Status == enums.CancellationStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProjectRepo) UpdateCancellationStatus(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	request, ok := r.cancellations[id]
	if !ok || request.Status != enums.CancellationStatusPending {
		return 0, nil
	}
	if v, ok := updates["status"]; ok {
		request.Status = v.(enums.CancellationStatus)
	}
	if v, ok := updates["reviewed_by_id"]; ok {
		id := v.(uuid.UUID)
		request.ReviewedByID = &id
	}
	if v, ok := updates["reviewed_at"]; ok {
		at := v.(time.Time)
		request.ReviewedAt = &at
	}
	if v, ok := updates["admin_remarks"]; ok {
		remarks := v.(string)
		request.AdminRemarks = &remarks
	}
	return 1, nil
}

func (r *stubProjectRepo) ListCancellations(ctx context.Context, status *enums.CancellationStatus, params pagination.Params) ([]models.ProjectCancellationRequest, int64, error) {
	var items []models.ProjectCancellationRequest
	for _, request := range r.cancellations {
		if status == nil || request.Status == *status {
			items = append(items, *request)
		}
	}
	return items, int64(len(items)), nil
}

func applyProjectUpdates(project *models.Project, updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "status":
			project.Status = value.(enums.ProjectStatus)
		case "payment_completed":
			project.PaymentCompleted = value.(bool)
		case "has_agent":
			project.HasAgent = value.(bool)
		case "md_gm_approval_status":
			project.MDGMApprovalStatus = value.(enums.ApprovalStatus)
		case "md_gm_rejection_reason":
			if value == nil {
				project.MDGMRejectionReason = nil
			} else {
				reason := value.(string)
				project.MDGMRejectionReason = &reason
			}
		case "md_gm_approved_at":
			at := value.(time.Time)
			project.MDGMApprovedAt = &at
		case "md_gm_rejected_at":
			at := value.(time.Time)
			project.MDGMRejectedAt = &at
		case "start_date":
			at := value.(time.Time)
			project.StartDate = &at
		case "end_date":
			at := value.(time.Time)
			project.EndDate = &at
		case "assigned_field_officer_id":
			id := value.(uuid.UUID)
			project.AssignedFieldOfficer = &id
		case "assigned_client_id":
			id := value.(uuid.UUID)
			project.AssignedClient = &id
		case "assigned_agent_id":
			id := value.(uuid.UUID)
			project.AssignedAgent = &id
		case "assigned_accessor_id":
			id := value.(uuid.UUID)
			project.AssignedAccessor = &id
		case "assigned_senior_valuer_id":
			id := value.(uuid.UUID)
			project.AssignedSeniorValuer = &id
		}
	}
}

func applyPaymentUpdates(payment *models.ProjectPayment, updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "status":
			payment.Status = value.(enums.PaymentStatus)
		case "requested_at":
			at := value.(time.Time)
			payment.RequestedAt = &at
		case "requested_by_id":
			id := value.(uuid.UUID)
			payment.RequestedBy = &id
		case "bank_slip_path":
			path := value.(string)
			payment.BankSlipPath = &path
		case "bank_slip_uploaded_at":
			at := value.(time.Time)
			payment.BankSlipUploadedAt = &at
		case "bank_slip_uploaded_by_id":
			id := value.(uuid.UUID)
			payment.BankSlipUploadedBy = &id
		case "approved_at":
			at := value.(time.Time)
			payment.ApprovedAt = &at
		case "approved_by_id":
			id := value.(uuid.UUID)
			payment.ApprovedBy = &id
		case "rejection_reason":
			if value == nil {
				payment.RejectionReason = nil
			} else {
				reason := value.(string)
				payment.RejectionReason = &reason
			}
		case "rejection_count":
			// The service sends a SQL expression; the stub just counts.
			payment.RejectionCount++
		case "last_rejected_at":
			at := value.(time.Time)
			payment.LastRejectedAt = &at
		case "payment_instructions":
			payment.PaymentInstructions = value.(string)
		case "client_notes":
			payment.ClientNotes = value.(string)
		case "coordinator_notes":
			payment.CoordinatorNotes = value.(string)
		}
	}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRecorder struct {
	entries []syslog.AppendInput
}

func (r *stubRecorder) Record(ctx context.Context, input syslog.AppendInput) {
	r.entries = append(r.entries, input)
}

func (r *stubRecorder) lastAction() enums.LogAction {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1].Action
}

type stubNotifier struct {
	notices []notifications.Notice
}

func (n *stubNotifier) Notify(ctx context.Context, notice notifications.Notice) {
	n.notices = append(n.notices, notice)
}

func (n *stubNotifier) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[models.Notification], error) {
	return pagination.Page[models.Notification]{}, nil
}

func (n *stubNotifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (n *stubNotifier) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (n *stubNotifier) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type projectFixture struct {
	svc      Service
	repo     *stubProjectRepo
	recorder *stubRecorder
	notifier *stubNotifier
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	repo := newStubProjectRepo()
	recorder := &stubRecorder{}
	notifier := &stubNotifier{}
	svc, err := NewService(repo, stubTxRunner{}, recorder, notifier)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &projectFixture{svc: svc, repo: repo, recorder: recorder, notifier: notifier}
}

func (f *projectFixture) createProject(t *testing.T, coordinatorID uuid.UUID) *models.Project {
	t.Helper()
	project, err := f.svc.Create(context.Background(), CreateInput{
		Title:          "Colombo land valuation",
		Description:    "Survey and valuation of a 20 perch plot",
		CoordinatorID:  coordinatorID,
		EstimatedValue: decimal.NewFromInt(150000),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return project
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
	return typed
}

func TestCreateProjectCreatesPaymentAndHistory(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()

	project := f.createProject(t, coordinatorID)

	if project.Status != enums.ProjectStatusPending {
		t.Fatalf("new project status = %s, want pending", project.Status)
	}
	if project.Priority != enums.PriorityMedium {
		t.Fatalf("default priority = %s, want medium", project.Priority)
	}
	payment, err := f.repo.FindPaymentByProject(context.Background(), project.ID)
	if err != nil || payment == nil {
		t.Fatalf("payment row missing: %v", err)
	}
	if payment.Status != enums.PaymentStatusPending {
		t.Fatalf("payment status = %s, want pending", payment.Status)
	}
	if !payment.EstimatedValue.Equal(project.EstimatedValue) {
		t.Fatalf("payment value %s != project value %s", payment.EstimatedValue, project.EstimatedValue)
	}
	if len(f.repo.histories) != 1 || f.repo.histories[0].Status != enums.ProjectStatusPending {
		t.Fatalf("expected one pending history entry, got %+v", f.repo.histories)
	}
	if f.recorder.lastAction() != enums.LogActionProjectCreated {
		t.Fatalf("last audit action = %s, want PROJECT_CREATED", f.recorder.lastAction())
	}
}

func TestCreateProjectRequiresTitle(t *testing.T) {
	f := newProjectFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		CoordinatorID:  uuid.New(),
		EstimatedValue: decimal.NewFromInt(1000),
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestMDGMApproveAndRejectAreOneShot(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	mdgmID := uuid.New()
	project := f.createProject(t, coordinatorID)

	approved, err := f.svc.MDGMApprove(context.Background(), project.ID, mdgmID)
	if err != nil {
		t.Fatalf("MDGMApprove: %v", err)
	}
	if approved.MDGMApprovalStatus != enums.ApprovalStatusApproved {
		t.Fatalf("approval status = %s, want approved", approved.MDGMApprovalStatus)
	}
	if approved.MDGMApprovedAt == nil {
		t.Fatal("approved_at not stamped")
	}
	if f.recorder.lastAction() != enums.LogActionProjectApproved {
		t.Fatalf("last audit action = %s, want PROJECT_APPROVED", f.recorder.lastAction())
	}
	if len(f.notifier.notices) != 1 || f.notifier.notices[0].UserID != coordinatorID {
		t.Fatalf("coordinator not notified: %+v", f.notifier.notices)
	}

	_, err = f.svc.MDGMReject(context.Background(), project.ID, mdgmID, "budget issue")
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestMDGMRejectRequiresReason(t *testing.T) {
	f := newProjectFixture(t)
	project := f.createProject(t, uuid.New())
	_, err := f.svc.MDGMReject(context.Background(), project.ID, uuid.New(), "  ")
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestPaymentCycle(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	clientID := uuid.New()
	project := f.createProject(t, coordinatorID)
	if _, err := f.svc.Assign(context.Background(), project.ID, coordinatorID, AssignInput{ClientID: &clientID}); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	payment, err := f.svc.SendPaymentRequest(context.Background(), project.ID, coordinatorID, "transfer to account 100200")
	if err != nil {
		t.Fatalf("SendPaymentRequest: %v", err)
	}
	if payment.Status != enums.PaymentStatusRequested {
		t.Fatalf("payment status = %s, want requested", payment.Status)
	}

	payment, err = f.svc.SubmitBankSlip(context.Background(), project.ID, clientID, "/uploads/slip.pdf", "paid in full")
	if err != nil {
		t.Fatalf("SubmitBankSlip: %v", err)
	}
	if payment.Status != enums.PaymentStatusSubmitted {
		t.Fatalf("payment status = %s, want submitted", payment.Status)
	}
	if payment.BankSlipPath == nil || *payment.BankSlipPath != "/uploads/slip.pdf" {
		t.Fatalf("bank slip path not stored: %+v", payment.BankSlipPath)
	}

	payment, err = f.svc.ApprovePayment(context.Background(), project.ID, coordinatorID, "verified against bank statement")
	if err != nil {
		t.Fatalf("ApprovePayment: %v", err)
	}
	if payment.Status != enums.PaymentStatusApproved {
		t.Fatalf("payment status = %s, want approved", payment.Status)
	}

	updated, err := f.svc.Get(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !updated.PaymentCompleted {
		t.Fatal("payment_completed not set after approval")
	}
	if f.recorder.lastAction() != enums.LogActionPaymentApproved {
		t.Fatalf("last audit action = %s, want PAYMENT_APPROVED", f.recorder.lastAction())
	}
}

func TestRejectPaymentRequiresReasonAndCounts(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project := f.createProject(t, coordinatorID)

	if _, err := f.svc.SendPaymentRequest(context.Background(), project.ID, coordinatorID, ""); err != nil {
		t.Fatalf("SendPaymentRequest: %v", err)
	}
	if _, err := f.svc.SubmitBankSlip(context.Background(), project.ID, uuid.New(), "/uploads/slip.png", ""); err != nil {
		t.Fatalf("SubmitBankSlip: %v", err)
	}

	_, err := f.svc.RejectPayment(context.Background(), project.ID, coordinatorID, "")
	expectCode(t, err, pkgerrors.CodeValidation)

	payment, err := f.svc.RejectPayment(context.Background(), project.ID, coordinatorID, "slip unreadable")
	if err != nil {
		t.Fatalf("RejectPayment: %v", err)
	}
	if payment.Status != enums.PaymentStatusRejected {
		t.Fatalf("payment status = %s, want rejected", payment.Status)
	}
	if payment.RejectionCount != 1 {
		t.Fatalf("rejection count = %d, want 1", payment.RejectionCount)
	}
	if payment.RejectionReason == nil || *payment.RejectionReason != "slip unreadable" {
		t.Fatalf("rejection reason not stored: %+v", payment.RejectionReason)
	}

	// A rejected payment can be re-requested and re-submitted.
	if _, err := f.svc.SubmitBankSlip(context.Background(), project.ID, uuid.New(), "/uploads/slip2.png", ""); err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
}

func TestSendPaymentRequestWrongStatus(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project := f.createProject(t, coordinatorID)

	if _, err := f.svc.SendPaymentRequest(context.Background(), project.ID, coordinatorID, ""); err != nil {
		t.Fatalf("SendPaymentRequest: %v", err)
	}
	if _, err := f.svc.SubmitBankSlip(context.Background(), project.ID, uuid.New(), "/uploads/slip.png", ""); err != nil {
		t.Fatalf("SubmitBankSlip: %v", err)
	}

	_, err := f.svc.SendPaymentRequest(context.Background(), project.ID, coordinatorID, "")
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestStartReportsAllMissingRequirements(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project, err := f.svc.Create(context.Background(), CreateInput{
		Title:          "Kandy building survey",
		CoordinatorID:  coordinatorID,
		EstimatedValue: decimal.NewFromInt(90000),
		HasAgent:       true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = f.svc.Start(context.Background(), project.ID, coordinatorID)
	typed := expectCode(t, err, pkgerrors.CodeStateConflict)

	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("details not a map: %+v", typed.Details())
	}
	reasons, ok := details["reasons"].([]string)
	if !ok {
		t.Fatalf("reasons missing: %+v", details)
	}
	// Payment, field officer, client, accessor, senior valuer and the
	// agent are all missing at once.
	if len(reasons) != 6 {
		t.Fatalf("got %d reasons, want 6: %v", len(reasons), reasons)
	}
}

func readyProject(t *testing.T, f *projectFixture, coordinatorID uuid.UUID) *models.Project {
	t.Helper()
	project := f.createProject(t, coordinatorID)
	fieldOfficerID := uuid.New()
	clientID := uuid.New()
	accessorID := uuid.New()
	seniorValuerID := uuid.New()
	if _, err := f.svc.Assign(context.Background(), project.ID, coordinatorID, AssignInput{
		FieldOfficerID: &fieldOfficerID,
		ClientID:       &clientID,
		AccessorID:     &accessorID,
		SeniorValuerID: &seniorValuerID,
	}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := f.svc.SendPaymentRequest(context.Background(), project.ID, coordinatorID, ""); err != nil {
		t.Fatalf("SendPaymentRequest: %v", err)
	}
	if _, err := f.svc.SubmitBankSlip(context.Background(), project.ID, clientID, "/uploads/slip.pdf", ""); err != nil {
		t.Fatalf("SubmitBankSlip: %v", err)
	}
	if _, err := f.svc.ApprovePayment(context.Background(), project.ID, coordinatorID, ""); err != nil {
		t.Fatalf("ApprovePayment: %v", err)
	}
	return project
}

func TestStartAndCompleteLifecycle(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project := readyProject(t, f, coordinatorID)

	started, err := f.svc.Start(context.Background(), project.ID, coordinatorID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if started.Status != enums.ProjectStatusInProgress {
		t.Fatalf("status = %s, want in_progress", started.Status)
	}
	if started.StartDate == nil {
		t.Fatal("start date not stamped")
	}
	if f.recorder.lastAction() != enums.LogActionProjectStarted {
		t.Fatalf("last audit action = %s, want PROJECT_STARTED", f.recorder.lastAction())
	}

	completed, err := f.svc.Complete(context.Background(), project.ID, coordinatorID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.Status != enums.ProjectStatusCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}
	if completed.EndDate == nil {
		t.Fatal("end date not stamped")
	}

	history, err := f.svc.StatusHistory(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("StatusHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 history entries (pending, in_progress, completed), got %d", len(history))
	}

	_, err = f.svc.Complete(context.Background(), project.ID, coordinatorID)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestStartChecksAgainstLockedRow(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project := readyProject(t, f, coordinatorID)

	if _, err := f.svc.Start(context.Background(), project.ID, coordinatorID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if f.repo.lockedReads != 1 {
		t.Fatalf("start performed %d locked reads, want 1", f.repo.lockedReads)
	}
}

func TestRecordStatusNoteKeepsStatus(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	accessorID := uuid.New()
	project := f.createProject(t, coordinatorID)

	if err := f.svc.RecordStatusNote(context.Background(), project.ID, accessorID, "Valuation (land) reviewed by accessor"); err != nil {
		t.Fatalf("RecordStatusNote: %v", err)
	}

	if len(f.repo.histories) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(f.repo.histories))
	}
	note := f.repo.histories[1]
	if note.Status != enums.ProjectStatusPending {
		t.Fatalf("note status = %s, want the project's current status", note.Status)
	}
	if note.Notes != "Valuation (land) reviewed by accessor" {
		t.Fatalf("note text = %q", note.Notes)
	}
	if note.CreatedByID == nil || *note.CreatedByID != accessorID {
		t.Fatalf("note author not stamped: %+v", note.CreatedByID)
	}

	project, err := f.svc.Get(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if project.Status != enums.ProjectStatusPending {
		t.Fatalf("project status changed by note: %s", project.Status)
	}
}

func TestRequestCancellationOnlyCoordinator(t *testing.T) {
	f := newProjectFixture(t)
	project := f.createProject(t, uuid.New())
	_, err := f.svc.RequestCancellation(context.Background(), project.ID, uuid.New(), "client withdrew")
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestRequestCancellationSinglePending(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project := f.createProject(t, coordinatorID)

	if _, err := f.svc.RequestCancellation(context.Background(), project.ID, coordinatorID, "client withdrew"); err != nil {
		t.Fatalf("RequestCancellation: %v", err)
	}
	_, err := f.svc.RequestCancellation(context.Background(), project.ID, coordinatorID, "second attempt")
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestApproveCancellationTwoPersonRule(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project := f.createProject(t, coordinatorID)

	request, err := f.svc.RequestCancellation(context.Background(), project.ID, coordinatorID, "duplicate engagement")
	if err != nil {
		t.Fatalf("RequestCancellation: %v", err)
	}

	_, err = f.svc.ApproveCancellation(context.Background(), request.ID, coordinatorID, "")
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestApproveCancellationCancelsProject(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	adminID := uuid.New()
	project := f.createProject(t, coordinatorID)

	request, err := f.svc.RequestCancellation(context.Background(), project.ID, coordinatorID, "duplicate engagement")
	if err != nil {
		t.Fatalf("RequestCancellation: %v", err)
	}

	resolved, err := f.svc.ApproveCancellation(context.Background(), request.ID, adminID, "confirmed with client")
	if err != nil {
		t.Fatalf("ApproveCancellation: %v", err)
	}
	if resolved.Status != enums.CancellationStatusApproved {
		t.Fatalf("request status = %s, want approved", resolved.Status)
	}
	if resolved.ReviewedByID == nil || *resolved.ReviewedByID != adminID {
		t.Fatalf("reviewer not stamped: %+v", resolved.ReviewedByID)
	}

	cancelled, err := f.svc.Get(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cancelled.Status != enums.ProjectStatusCancelled {
		t.Fatalf("project status = %s, want cancelled", cancelled.Status)
	}
	if f.recorder.lastAction() != enums.LogActionCancellationApproved {
		t.Fatalf("last audit action = %s, want CANCELLATION_APPROVED", f.recorder.lastAction())
	}
}

func TestApproveCancellationNotifiesAssignedTeam(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	adminID := uuid.New()
	fieldOfficerID := uuid.New()
	clientID := uuid.New()
	accessorID := uuid.New()
	seniorValuerID := uuid.New()
	project := f.createProject(t, coordinatorID)
	if _, err := f.svc.Assign(context.Background(), project.ID, coordinatorID, AssignInput{
		FieldOfficerID: &fieldOfficerID,
		ClientID:       &clientID,
		AccessorID:     &accessorID,
		SeniorValuerID: &seniorValuerID,
	}); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	request, err := f.svc.RequestCancellation(context.Background(), project.ID, coordinatorID, "client withdrew")
	if err != nil {
		t.Fatalf("RequestCancellation: %v", err)
	}
	if _, err := f.svc.ApproveCancellation(context.Background(), request.ID, adminID, "confirmed"); err != nil {
		t.Fatalf("ApproveCancellation: %v", err)
	}

	notified := map[uuid.UUID]bool{}
	for _, notice := range f.notifier.notices {
		notified[notice.UserID] = true
	}
	for _, id := range []uuid.UUID{coordinatorID, fieldOfficerID, clientID, accessorID, seniorValuerID} {
		if !notified[id] {
			t.Fatalf("user %s not notified of cancellation, got %+v", id, f.notifier.notices)
		}
	}
}

func TestRejectCancellationRequiresRemarks(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project := f.createProject(t, coordinatorID)

	request, err := f.svc.RequestCancellation(context.Background(), project.ID, coordinatorID, "duplicate engagement")
	if err != nil {
		t.Fatalf("RequestCancellation: %v", err)
	}

	_, err = f.svc.RejectCancellation(context.Background(), request.ID, uuid.New(), " ")
	expectCode(t, err, pkgerrors.CodeValidation)

	resolved, err := f.svc.RejectCancellation(context.Background(), request.ID, uuid.New(), "project continues per client")
	if err != nil {
		t.Fatalf("RejectCancellation: %v", err)
	}
	if resolved.Status != enums.CancellationStatusRejected {
		t.Fatalf("request status = %s, want rejected", resolved.Status)
	}
	if resolved.AdminRemarks == nil || *resolved.AdminRemarks != "project continues per client" {
		t.Fatalf("admin remarks not stored: %+v", resolved.AdminRemarks)
	}
	// Project keeps running after a rejected cancellation.
	project, err = f.svc.Get(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if project.Status != enums.ProjectStatusPending {
		t.Fatalf("project status = %s, want pending", project.Status)
	}
}

func TestAssignOnClosedProject(t *testing.T) {
	f := newProjectFixture(t)
	coordinatorID := uuid.New()
	project := readyProject(t, f, coordinatorID)

	if _, err := f.svc.Start(context.Background(), project.ID, coordinatorID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.Complete(context.Background(), project.ID, coordinatorID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	agentID := uuid.New()
	_, err := f.svc.Assign(context.Background(), project.ID, coordinatorID, AssignInput{AgentID: &agentID})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}
