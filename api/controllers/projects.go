package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/middleware"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/responses"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/validators"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/projects"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

type createProjectRequest struct {
	Title          string          `json:"title" validate:"required"`
	Description    string          `json:"description"`
	Priority       string          `json:"priority,omitempty"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	HasAgent       bool            `json:"has_agent"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
}

type assignTeamRequest struct {
	FieldOfficerID *uuid.UUID `json:"field_officer_id,omitempty"`
	ClientID       *uuid.UUID `json:"client_id,omitempty"`
	AgentID        *uuid.UUID `json:"agent_id,omitempty"`
	AccessorID     *uuid.UUID `json:"accessor_id,omitempty"`
	SeniorValuerID *uuid.UUID `json:"senior_valuer_id,omitempty"`
	HasAgent       *bool      `json:"has_agent,omitempty"`
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type projectResponse struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    enums.Priority      `json:"priority"`
	Status      enums.ProjectStatus `json:"status"`

	CoordinatorID        uuid.UUID  `json:"coordinator_id"`
	AssignedFieldOfficer *uuid.UUID `json:"assigned_field_officer_id,omitempty"`
	AssignedClient       *uuid.UUID `json:"assigned_client_id,omitempty"`
	AssignedAgent        *uuid.UUID `json:"assigned_agent_id,omitempty"`
	AssignedAccessor     *uuid.UUID `json:"assigned_accessor_id,omitempty"`
	AssignedSeniorValuer *uuid.UUID `json:"assigned_senior_valuer_id,omitempty"`
	HasAgent             bool       `json:"has_agent"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	MDGMApprovalStatus  enums.ApprovalStatus `json:"md_gm_approval_status"`
	MDGMRejectionReason *string              `json:"md_gm_rejection_reason,omitempty"`
	MDGMApprovedAt      *time.Time           `json:"md_gm_approved_at,omitempty"`
	MDGMRejectedAt      *time.Time           `json:"md_gm_rejected_at,omitempty"`

	EstimatedValue   decimal.Decimal `json:"estimated_value"`
	PaymentCompleted bool            `json:"payment_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type statusHistoryResponse struct {
	ID          uuid.UUID           `json:"id"`
	ProjectID   uuid.UUID           `json:"project_id"`
	Status      enums.ProjectStatus `json:"status"`
	Stage       *string             `json:"stage,omitempty"`
	Notes       string              `json:"notes"`
	CreatedByID *uuid.UUID          `json:"created_by_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func newProjectResponse(project *models.Project) projectResponse {
	return projectResponse{
		ID:                   project.ID,
		Title:                project.Title,
		Description:          project.Description,
		Priority:             project.Priority,
		Status:               project.Status,
		CoordinatorID:        project.CoordinatorID,
		AssignedFieldOfficer: project.AssignedFieldOfficer,
		AssignedClient:       project.AssignedClient,
		AssignedAgent:        project.AssignedAgent,
		AssignedAccessor:     project.AssignedAccessor,
		AssignedSeniorValuer: project.AssignedSeniorValuer,
		HasAgent:             project.HasAgent,
		StartDate:            project.StartDate,
		EndDate:              project.EndDate,
		MDGMApprovalStatus:   project.MDGMApprovalStatus,
		MDGMRejectionReason:  project.MDGMRejectionReason,
		MDGMApprovedAt:       project.MDGMApprovedAt,
		MDGMRejectedAt:       project.MDGMRejectedAt,
		EstimatedValue:       project.EstimatedValue,
		PaymentCompleted:     project.PaymentCompleted,
		CreatedAt:            project.CreatedAt,
		UpdatedAt:            project.UpdatedAt,
	}
}

func newStatusHistoryResponse(entry models.ProjectStatusHistory) statusHistoryResponse {
	return statusHistoryResponse{
		ID:          entry.ID,
		ProjectID:   entry.ProjectID,
		Status:      entry.Status,
		Stage:       entry.Stage,
		Notes:       entry.Notes,
		CreatedByID: entry.CreatedByID,
		CreatedAt:   entry.CreatedAt,
	}
}

func parseProjectID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "projectId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid project id")
	}
	return id, nil
}

// CreateProject opens a new project owned by the calling coordinator.
func CreateProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProjectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := projects.CreateInput{
			Title:          body.Title,
			Description:    body.Description,
			CoordinatorID:  middleware.UserIDFromContext(r.Context()),
			EstimatedValue: body.EstimatedValue,
			HasAgent:       body.HasAgent,
			StartDate:      body.StartDate,
			EndDate:        body.EndDate,
		}

		if raw := strings.TrimSpace(body.Priority); raw != "" {
			priority, err := enums.ParsePriority(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown priority"))
				return
			}
			input.Priority = priority
		}

		project, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newProjectResponse(project))
	}
}

// GetProject returns one project by id.
func GetProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Get(r.Context(), projectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProjectResponse(project))
	}
}

// ListProjects returns paginated projects filtered by status, coordinator,
// team membership or title search.
func ListProjects(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := projects.ListFilters{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProjectStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown project status"))
				return
			}
			filters.Status = &status
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("coordinator_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coordinator id"))
				return
			}
			filters.CoordinatorID = &id
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("member_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid member id"))
				return
			}
			filters.MemberID = &id
		}

		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagination.MapPage(page, func(project models.Project) projectResponse {
			return newProjectResponse(&project)
		}))
	}
}

// ProjectStatusHistory returns the project's status trail, oldest first.
func ProjectStatusHistory(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.StatusHistory(r.Context(), projectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]statusHistoryResponse, 0, len(entries))
		for _, entry := range entries {
			out = append(out, newStatusHistoryResponse(entry))
		}
		responses.WriteSuccess(w, out)
	}
}

// AssignProjectTeam updates the project's assigned members. Omitted
// fields keep their current value.
func AssignProjectTeam(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignTeamRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Assign(r.Context(), projectID, middleware.UserIDFromContext(r.Context()), projects.AssignInput{
			FieldOfficerID: body.FieldOfficerID,
			ClientID:       body.ClientID,
			AgentID:        body.AgentID,
			AccessorID:     body.AccessorID,
			SeniorValuerID: body.SeniorValuerID,
			HasAgent:       body.HasAgent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProjectResponse(project))
	}
}

// MDGMApproveProject records the MD/GM sign-off on a project.
func MDGMApproveProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.MDGMApprove(r.Context(), projectID, middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProjectResponse(project))
	}
}

// MDGMRejectProject records an MD/GM rejection with a mandatory reason.
func MDGMRejectProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.MDGMReject(r.Context(), projectID, middleware.UserIDFromContext(r.Context()), body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProjectResponse(project))
	}
}

// StartProject moves a pending project into progress once every
// precondition holds.
func StartProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Start(r.Context(), projectID, middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProjectResponse(project))
	}
}

// CompleteProject closes an in-progress project.
func CompleteProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Complete(r.Context(), projectID, middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProjectResponse(project))
	}
}
