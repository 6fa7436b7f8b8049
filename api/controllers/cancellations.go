package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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

type cancellationReviewRequest struct {
	Remarks string `json:"remarks"`
}

type cancellationResponse struct {
	ID            uuid.UUID                `json:"id"`
	ProjectID     uuid.UUID                `json:"project_id"`
	RequestedByID uuid.UUID                `json:"requested_by_id"`
	Reason        string                   `json:"reason"`
	Status        enums.CancellationStatus `json:"status"`
	ReviewedByID  *uuid.UUID               `json:"reviewed_by_id,omitempty"`
	AdminRemarks  *string                  `json:"admin_remarks,omitempty"`
	ReviewedAt    *time.Time               `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

func newCancellationResponse(request *models.ProjectCancellationRequest) cancellationResponse {
	return cancellationResponse{
		ID:            request.ID,
		ProjectID:     request.ProjectID,
		RequestedByID: request.RequestedByID,
		Reason:        request.Reason,
		Status:        request.Status,
		ReviewedByID:  request.ReviewedByID,
		AdminRemarks:  request.AdminRemarks,
		ReviewedAt:    request.ReviewedAt,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

func parseCancellationID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "requestId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cancellation request id")
	}
	return id, nil
}

// RequestProjectCancellation opens a cancellation request on behalf of
// the project's coordinator.
func RequestProjectCancellation(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		request, err := svc.RequestCancellation(r.Context(), projectID, middleware.UserIDFromContext(r.Context()), body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCancellationResponse(request))
	}
}

// ApproveProjectCancellation resolves a pending request and cancels the
// project. The reviewer must not be the requester.
func ApproveProjectCancellation(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := parseCancellationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cancellationReviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.ApproveCancellation(r.Context(), requestID, middleware.UserIDFromContext(r.Context()), body.Remarks)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCancellationResponse(request))
	}
}

// RejectProjectCancellation declines a pending request; remarks are
// mandatory so the coordinator knows why.
func RejectProjectCancellation(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := parseCancellationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cancellationReviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.RejectCancellation(r.Context(), requestID, middleware.UserIDFromContext(r.Context()), body.Remarks)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCancellationResponse(request))
	}
}

// ListProjectCancellations returns paginated cancellation requests,
// optionally filtered by status.
func ListProjectCancellations(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.CancellationStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseCancellationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown cancellation status"))
				return
			}
			status = &parsed
		}

		page, err := svc.ListCancellations(r.Context(), status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagination.MapPage(page, func(request models.ProjectCancellationRequest) cancellationResponse {
			return newCancellationResponse(&request)
		}))
	}
}
