package valuations

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/notifications"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/syslog"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/config"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

type stubValuationRepo struct {
	valuations map[uuid.UUID]*models.Valuation
	histories  []models.ValuationHistory
}

func newStubValuationRepo() *stubValuationRepo {
	return &stubValuationRepo{valuations: map[uuid.UUID]*models.Valuation{}}
}

func (r *stubValuationRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubValuationRepo) Create(ctx context.Context, valuation *models.Valuation) error {
	if valuation.ID == uuid.Nil {
		valuation.ID = uuid.New()
	}
	r.valuations[valuation.ID] = valuation
	return nil
}

func (r *stubValuationRepo) Find(ctx context.Context, id uuid.UUID) (*models.Valuation, error) {
	valuation, ok := r.valuations[id]
	if !ok {
		return nil, nil
	}
	clone := *valuation
	return &clone, nil
}

func (r *stubValuationRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if valuation, ok := r.valuations[id]; ok {
		applyValuationUpdates(valuation, updates)
	}
	return nil
}

func (r *stubValuationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []enums.ValuationStatus, updates map[string]any) (int64, error) {
	valuation, ok := r.valuations[id]
	if !ok {
		return 0, nil
	}
	matched := false
	for _, status := range from {
		if valuation.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return 0, nil
	}
	applyValuationUpdates(valuation, updates)
	return 1, nil
}

func (r *stubValuationRepo) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Valuation, int64, error) {
	var items []models.Valuation
	for _, valuation := range r.valuations {
		items = append(items, *valuation)
	}
	return items, int64(len(items)), nil
}

func (r *stubValuationRepo) CreateHistory(ctx context.Context, entry *models.ValuationHistory) error {
	r.histories = append(r.histories, *entry)
	return nil
}

func (r *stubValuationRepo) ListHistory(ctx context.Context, valuationID uuid.UUID) ([]models.ValuationHistory, error) {
	var entries []models.ValuationHistory
	for _, entry := range r.histories {
		if entry.ValuationID == valuationID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func applyValuationUpdates(valuation *models.Valuation, updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "status":
			valuation.Status = value.(enums.ValuationStatus)
		case "submitted_at":
			if value == nil {
				valuation.SubmittedAt = nil
			} else {
				at := value.(time.Time)
				valuation.SubmittedAt = &at
			}
		case "rejection_reason":
			valuation.RejectionReason = value.(string)
		case "accessor_comments":
			valuation.AccessorComments = value.(string)
		case "senior_valuer_comments":
			valuation.SVComments = value.(string)
		case "md_gm_comments":
			valuation.MDGMComments = value.(string)
		case "submitted_report_path":
			path := value.(string)
			valuation.SubmittedReportPath = &path
		case "final_report_path":
			path := value.(string)
			valuation.FinalReportPath = &path
		case "description":
			valuation.Description = value.(string)
		case "notes":
			valuation.Notes = value.(string)
		}
	}
}

type stubProjects struct {
	projects map[uuid.UUID]*models.Project
	notes    []string
}

func (s *stubProjects) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, ok := s.projects[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
	}
	clone := *project
	return &clone, nil
}

func (s *stubProjects) RecordStatusNote(ctx context.Context, projectID, actorID uuid.UUID, note string) error {
	s.notes = append(s.notes, note)
	return nil
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

type valuationFixture struct {
	svc            Service
	repo           *stubValuationRepo
	recorder       *stubRecorder
	notifier       *stubNotifier
	projects       *stubProjects
	project        *models.Project
	fieldOfficerID uuid.UUID
	accessorID     uuid.UUID
	seniorValuerID uuid.UUID
	clock          *time.Time
}

func newValuationFixture(t *testing.T) *valuationFixture {
	t.Helper()
	fieldOfficerID := uuid.New()
	accessorID := uuid.New()
	seniorValuerID := uuid.New()
	project := &models.Project{
		ID:                   uuid.New(),
		Title:                "Galle fort property",
		Status:               enums.ProjectStatusInProgress,
		CoordinatorID:        uuid.New(),
		AssignedFieldOfficer: &fieldOfficerID,
		AssignedAccessor:     &accessorID,
		AssignedSeniorValuer: &seniorValuerID,
	}

	repo := newStubValuationRepo()
	recorder := &stubRecorder{}
	notifier := &stubNotifier{}
	projects := &stubProjects{projects: map[uuid.UUID]*models.Project{project.ID: project}}
	svc, err := NewService(repo, projects, stubTxRunner{}, recorder, notifier, config.ValuationsConfig{EditWindow: 2 * time.Hour})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := &now
	svc.(*service).now = func() time.Time { return *clock }

	return &valuationFixture{
		svc:            svc,
		repo:           repo,
		recorder:       recorder,
		notifier:       notifier,
		projects:       projects,
		project:        project,
		fieldOfficerID: fieldOfficerID,
		accessorID:     accessorID,
		seniorValuerID: seniorValuerID,
		clock:          clock,
	}
}

func (f *valuationFixture) createDraft(t *testing.T) *models.Valuation {
	t.Helper()
	valuation, err := f.svc.Create(context.Background(), CreateInput{
		ProjectID:      f.project.ID,
		FieldOfficerID: f.fieldOfficerID,
		Category:       enums.ValuationCategoryLand,
		Description:    "20 perch bare land",
		Details:        Details{LandLocation: "Galle"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return valuation
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestCreateRequiresInProgressProject(t *testing.T) {
	f := newValuationFixture(t)
	f.project.Status = enums.ProjectStatusPending

	_, err := f.svc.Create(context.Background(), CreateInput{
		ProjectID:      f.project.ID,
		FieldOfficerID: f.fieldOfficerID,
		Category:       enums.ValuationCategoryLand,
		Details:        Details{LandLocation: "Galle"},
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCreateOnlyAssignedFieldOfficer(t *testing.T) {
	f := newValuationFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		ProjectID:      f.project.ID,
		FieldOfficerID: uuid.New(),
		Category:       enums.ValuationCategoryLand,
		Details:        Details{LandLocation: "Galle"},
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateValidatesCategoryDetails(t *testing.T) {
	f := newValuationFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		ProjectID:      f.project.ID,
		FieldOfficerID: f.fieldOfficerID,
		Category:       enums.ValuationCategoryVehicle,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestFullReviewTrail(t *testing.T) {
	f := newValuationFixture(t)
	mdgmID := uuid.New()
	valuation := f.createDraft(t)

	submitted, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, "/reports/draft.pdf")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.Status != enums.ValuationStatusSubmitted || submitted.SubmittedAt == nil {
		t.Fatalf("after submit: status=%s submitted_at=%v", submitted.Status, submitted.SubmittedAt)
	}

	reviewed, err := f.svc.AccessorAccept(context.Background(), valuation.ID, f.accessorID, "figures check out")
	if err != nil {
		t.Fatalf("AccessorAccept: %v", err)
	}
	if reviewed.Status != enums.ValuationStatusReviewed {
		t.Fatalf("after review: status=%s", reviewed.Status)
	}
	if len(f.notifier.notices) == 0 || f.notifier.notices[len(f.notifier.notices)-1].UserID != f.seniorValuerID {
		t.Fatalf("senior valuer not notified: %+v", f.notifier.notices)
	}

	approved, err := f.svc.SVApprove(context.Background(), valuation.ID, f.seniorValuerID, "approved", "/reports/final.pdf")
	if err != nil {
		t.Fatalf("SVApprove: %v", err)
	}
	if approved.Status != enums.ValuationStatusApproved {
		t.Fatalf("after sv approve: status=%s", approved.Status)
	}
	if approved.FinalReportPath == nil || *approved.FinalReportPath != "/reports/final.pdf" {
		t.Fatalf("final report path not stored: %+v", approved.FinalReportPath)
	}

	final, err := f.svc.MDGMApprove(context.Background(), valuation.ID, mdgmID, "sign-off")
	if err != nil {
		t.Fatalf("MDGMApprove: %v", err)
	}
	if final.Status != enums.ValuationStatusMDApproved {
		t.Fatalf("after md approve: status=%s", final.Status)
	}

	history, err := f.svc.History(context.Background(), valuation.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	wantActions := []enums.ValuationHistoryAction{
		enums.ValuationHistorySubmitted,
		enums.ValuationHistoryReviewed,
		enums.ValuationHistoryApprovedBySV,
		enums.ValuationHistoryMDApproved,
	}
	if len(history) != len(wantActions) {
		t.Fatalf("history length %d, want %d", len(history), len(wantActions))
	}
	for i, want := range wantActions {
		if history[i].Action != want {
			t.Fatalf("history[%d] = %s, want %s", i, history[i].Action, want)
		}
	}
}

func TestRejectionRequiresReason(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err := f.svc.AccessorReject(context.Background(), valuation.ID, f.accessorID, "  ")
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestResubmissionAfterRejection(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)

	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	rejected, err := f.svc.AccessorReject(context.Background(), valuation.ID, f.accessorID, "missing boundary survey")
	if err != nil {
		t.Fatalf("AccessorReject: %v", err)
	}
	if rejected.Status != enums.ValuationStatusRejected || rejected.RejectionReason != "missing boundary survey" {
		t.Fatalf("after reject: status=%s reason=%q", rejected.Status, rejected.RejectionReason)
	}
	if len(f.notifier.notices) == 0 || f.notifier.notices[len(f.notifier.notices)-1].UserID != f.fieldOfficerID {
		t.Fatalf("field officer not notified of rejection: %+v", f.notifier.notices)
	}

	resubmitted, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, "")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resubmitted.Status != enums.ValuationStatusSubmitted {
		t.Fatalf("after resubmit: status=%s", resubmitted.Status)
	}
	if resubmitted.RejectionReason != "" {
		t.Fatalf("rejection reason not cleared: %q", resubmitted.RejectionReason)
	}

	history, err := f.svc.History(context.Background(), valuation.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	last := history[len(history)-1]
	if last.Action != enums.ValuationHistoryResubmitted {
		t.Fatalf("last history action = %s, want resubmitted", last.Action)
	}
}

func TestEditInsideWindowRevertsToDraft(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	historyBefore := len(f.repo.histories)

	*f.clock = f.clock.Add(time.Hour + 59*time.Minute)

	description := "20 perch bare land, revised extent"
	updated, err := f.svc.Update(context.Background(), valuation.ID, f.fieldOfficerID, UpdateInput{Description: &description})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != enums.ValuationStatusDraft {
		t.Fatalf("status = %s, want draft after in-window edit", updated.Status)
	}
	if updated.SubmittedAt != nil {
		t.Fatal("submitted_at not cleared on revert")
	}
	if updated.Description != description {
		t.Fatalf("description not updated: %q", updated.Description)
	}
	// Reverting is not a review action and leaves no trail entry.
	if len(f.repo.histories) != historyBefore {
		t.Fatalf("edit added history entries: %d -> %d", historyBefore, len(f.repo.histories))
	}
}

func TestEditOutsideWindowRejected(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	*f.clock = f.clock.Add(2*time.Hour + time.Minute)

	description := "too late"
	_, err := f.svc.Update(context.Background(), valuation.ID, f.fieldOfficerID, UpdateInput{Description: &description})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestEditOnlyOwner(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)

	description := "changed"
	_, err := f.svc.Update(context.Background(), valuation.ID, uuid.New(), UpdateInput{Description: &description})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestSVApproveOnlyReviewed(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err := f.svc.SVApprove(context.Background(), valuation.ID, f.seniorValuerID, "", "")
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestReviewOnlyAssignedAccessor(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err := f.svc.AccessorAccept(context.Background(), valuation.ID, uuid.New(), "looks fine")
	expectCode(t, err, pkgerrors.CodeForbidden)

	_, err = f.svc.AccessorReject(context.Background(), valuation.ID, uuid.New(), "not my project")
	expectCode(t, err, pkgerrors.CodeForbidden)

	current, err := f.svc.Get(context.Background(), valuation.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if current.Status != enums.ValuationStatusSubmitted {
		t.Fatalf("status = %s after rejected reviews, want submitted", current.Status)
	}
}

func TestSVDecisionsOnlyAssignedSeniorValuer(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.AccessorAccept(context.Background(), valuation.ID, f.accessorID, ""); err != nil {
		t.Fatalf("AccessorAccept: %v", err)
	}

	_, err := f.svc.SVApprove(context.Background(), valuation.ID, uuid.New(), "", "")
	expectCode(t, err, pkgerrors.CodeForbidden)

	_, err = f.svc.SVReject(context.Background(), valuation.ID, uuid.New(), "wrong desk")
	expectCode(t, err, pkgerrors.CodeForbidden)

	if _, err := f.svc.SVApprove(context.Background(), valuation.ID, f.seniorValuerID, "", ""); err != nil {
		t.Fatalf("SVApprove as assigned senior valuer: %v", err)
	}
}

func TestEditRejectedRevertsToDraft(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.AccessorReject(context.Background(), valuation.ID, f.accessorID, "incomplete survey"); err != nil {
		t.Fatalf("AccessorReject: %v", err)
	}

	description := "survey completed, extent corrected"
	updated, err := f.svc.Update(context.Background(), valuation.ID, f.fieldOfficerID, UpdateInput{Description: &description})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != enums.ValuationStatusDraft {
		t.Fatalf("status = %s, want draft after editing a rejected valuation", updated.Status)
	}
	if updated.RejectionReason != "" {
		t.Fatalf("rejection reason not cleared: %q", updated.RejectionReason)
	}
}

func TestReviewMilestonesLandOnProjectTrail(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.svc.AccessorAccept(context.Background(), valuation.ID, f.accessorID, ""); err != nil {
		t.Fatalf("AccessorAccept: %v", err)
	}
	if _, err := f.svc.SVApprove(context.Background(), valuation.ID, f.seniorValuerID, "", ""); err != nil {
		t.Fatalf("SVApprove: %v", err)
	}

	if len(f.projects.notes) != 2 {
		t.Fatalf("expected 2 project notes, got %v", f.projects.notes)
	}
	if !strings.Contains(f.projects.notes[0], "reviewed by accessor") {
		t.Fatalf("accept note = %q", f.projects.notes[0])
	}
	if !strings.Contains(f.projects.notes[1], "sent to MD/GM") {
		t.Fatalf("approve note = %q", f.projects.notes[1])
	}
}

func TestSVRejectNotifiesAccessorAndFieldOfficer(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.AccessorAccept(context.Background(), valuation.ID, f.accessorID, ""); err != nil {
		t.Fatalf("AccessorAccept: %v", err)
	}

	if _, err := f.svc.SVReject(context.Background(), valuation.ID, f.seniorValuerID, "valuation basis unsupported"); err != nil {
		t.Fatalf("SVReject: %v", err)
	}

	count := len(f.notifier.notices)
	if count < 2 {
		t.Fatalf("expected accessor and field officer notices, got %+v", f.notifier.notices)
	}
	if f.notifier.notices[count-2].UserID != f.accessorID {
		t.Fatalf("accessor not notified of senior valuer rejection: %+v", f.notifier.notices)
	}
	if f.notifier.notices[count-1].UserID != f.fieldOfficerID {
		t.Fatalf("field officer not notified of senior valuer rejection: %+v", f.notifier.notices)
	}
}

func TestMDGMRejectNotifiesSeniorValuerAndFieldOfficer(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.AccessorAccept(context.Background(), valuation.ID, f.accessorID, ""); err != nil {
		t.Fatalf("AccessorAccept: %v", err)
	}
	if _, err := f.svc.SVApprove(context.Background(), valuation.ID, f.seniorValuerID, "", ""); err != nil {
		t.Fatalf("SVApprove: %v", err)
	}

	if _, err := f.svc.MDGMReject(context.Background(), valuation.ID, uuid.New(), "value out of line with market"); err != nil {
		t.Fatalf("MDGMReject: %v", err)
	}

	count := len(f.notifier.notices)
	if count < 2 {
		t.Fatalf("expected senior valuer and field officer notices, got %+v", f.notifier.notices)
	}
	if f.notifier.notices[count-2].UserID != f.seniorValuerID {
		t.Fatalf("senior valuer not notified of MD/GM rejection: %+v", f.notifier.notices)
	}
	if f.notifier.notices[count-1].UserID != f.fieldOfficerID {
		t.Fatalf("field officer not notified of MD/GM rejection: %+v", f.notifier.notices)
	}
}

func TestSubmitAfterInWindowEditIsNotResubmission(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	*f.clock = f.clock.Add(time.Hour)
	description := "corrected extent before review"
	if _, err := f.svc.Update(context.Background(), valuation.ID, f.fieldOfficerID, UpdateInput{Description: &description}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	history, err := f.svc.History(context.Background(), valuation.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length %d, want 2", len(history))
	}
	for i, entry := range history {
		if entry.Action != enums.ValuationHistorySubmitted {
			t.Fatalf("history[%d] = %s, want submitted; a draft revert is not a rejection", i, entry.Action)
		}
	}
}

func TestAccessorAcceptNeedsSeniorValuer(t *testing.T) {
	f := newValuationFixture(t)
	valuation := f.createDraft(t)
	if _, err := f.svc.Submit(context.Background(), valuation.ID, f.fieldOfficerID, ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.project.AssignedSeniorValuer = nil

	_, err := f.svc.AccessorAccept(context.Background(), valuation.ID, f.accessorID, "")
	expectCode(t, err, pkgerrors.CodeStateConflict)
}
