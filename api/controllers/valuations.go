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
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/valuations"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

type valuationDetailsPayload struct {
	LandArea      *decimal.Decimal `json:"land_area,omitempty"`
	LandType      string           `json:"land_type,omitempty"`
	LandLocation  string           `json:"land_location,omitempty"`
	LandLatitude  *decimal.Decimal `json:"land_latitude,omitempty"`
	LandLongitude *decimal.Decimal `json:"land_longitude,omitempty"`

	BuildingArea      *decimal.Decimal `json:"building_area,omitempty"`
	BuildingType      string           `json:"building_type,omitempty"`
	BuildingLocation  string           `json:"building_location,omitempty"`
	BuildingLatitude  *decimal.Decimal `json:"building_latitude,omitempty"`
	BuildingLongitude *decimal.Decimal `json:"building_longitude,omitempty"`
	NumberOfFloors    *int             `json:"number_of_floors,omitempty"`
	YearBuilt         *int             `json:"year_built,omitempty"`

	VehicleMake         string `json:"vehicle_make,omitempty"`
	VehicleModel        string `json:"vehicle_model,omitempty"`
	VehicleYear         *int   `json:"vehicle_year,omitempty"`
	VehicleRegistration string `json:"vehicle_registration_number,omitempty"`
	VehicleMileage      *int   `json:"vehicle_mileage,omitempty"`
	VehicleCondition    string `json:"vehicle_condition,omitempty"`

	OtherType           string `json:"other_type,omitempty"`
	OtherSpecifications string `json:"other_specifications,omitempty"`
}

func (p valuationDetailsPayload) toDetails() valuations.Details {
	return valuations.Details{
		LandArea:            p.LandArea,
		LandType:            p.LandType,
		LandLocation:        p.LandLocation,
		LandLatitude:        p.LandLatitude,
		LandLongitude:       p.LandLongitude,
		BuildingArea:        p.BuildingArea,
		BuildingType:        p.BuildingType,
		BuildingLocation:    p.BuildingLocation,
		BuildingLatitude:    p.BuildingLatitude,
		BuildingLongitude:   p.BuildingLongitude,
		NumberOfFloors:      p.NumberOfFloors,
		YearBuilt:           p.YearBuilt,
		VehicleMake:         p.VehicleMake,
		VehicleModel:        p.VehicleModel,
		VehicleYear:         p.VehicleYear,
		VehicleRegistration: p.VehicleRegistration,
		VehicleMileage:      p.VehicleMileage,
		VehicleCondition:    p.VehicleCondition,
		OtherType:           p.OtherType,
		OtherSpecifications: p.OtherSpecifications,
	}
}

type createValuationRequest struct {
	ProjectID      uuid.UUID               `json:"project_id" validate:"required"`
	Category       string                  `json:"category" validate:"required"`
	Description    string                  `json:"description"`
	EstimatedValue *decimal.Decimal        `json:"estimated_value,omitempty"`
	Notes          string                  `json:"notes"`
	Details        valuationDetailsPayload `json:"details"`
}

type updateValuationRequest struct {
	Description    *string                  `json:"description,omitempty"`
	EstimatedValue *decimal.Decimal         `json:"estimated_value,omitempty"`
	Notes          *string                  `json:"notes,omitempty"`
	Details        *valuationDetailsPayload `json:"details,omitempty"`
}

type submitValuationRequest struct {
	ReportPath string `json:"report_path"`
}

type reviewCommentsRequest struct {
	Comments string `json:"comments"`
}

type svApproveRequest struct {
	Comments        string `json:"comments"`
	FinalReportPath string `json:"final_report_path"`
}

type valuationResponse struct {
	ID             uuid.UUID               `json:"id"`
	ProjectID      uuid.UUID               `json:"project_id"`
	FieldOfficerID uuid.UUID               `json:"field_officer_id"`
	Category       enums.ValuationCategory `json:"category"`
	Status         enums.ValuationStatus   `json:"status"`

	Description    string           `json:"description"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	Notes          string           `json:"notes"`

	Details valuationDetailsPayload `json:"details"`

	RejectionReason     string  `json:"rejection_reason,omitempty"`
	AccessorComments    string  `json:"accessor_comments,omitempty"`
	SubmittedReportPath *string `json:"submitted_report_path,omitempty"`
	SVComments          string  `json:"senior_valuer_comments,omitempty"`
	FinalReportPath     *string `json:"final_report_path,omitempty"`
	MDGMComments        string  `json:"md_gm_comments,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

type valuationHistoryResponse struct {
	ID            uuid.UUID                    `json:"id"`
	ValuationID   uuid.UUID                    `json:"valuation_id"`
	Action        enums.ValuationHistoryAction `json:"action"`
	PerformedByID *uuid.UUID                   `json:"performed_by_id,omitempty"`
	Comments      string                       `json:"comments,omitempty"`
	CreatedAt     time.Time                    `json:"created_at"`
}

func newValuationResponse(valuation *models.Valuation) valuationResponse {
	return valuationResponse{
		ID:             valuation.ID,
		ProjectID:      valuation.ProjectID,
		FieldOfficerID: valuation.FieldOfficerID,
		Category:       valuation.Category,
		Status:         valuation.Status,
		Description:    valuation.Description,
		EstimatedValue: valuation.EstimatedValue,
		Notes:          valuation.Notes,
		Details: valuationDetailsPayload{
			LandArea:            valuation.LandArea,
			LandType:            valuation.LandType,
			LandLocation:        valuation.LandLocation,
			LandLatitude:        valuation.LandLatitude,
			LandLongitude:       valuation.LandLongitude,
			BuildingArea:        valuation.BuildingArea,
			BuildingType:        valuation.BuildingType,
			BuildingLocation:    valuation.BuildingLocation,
			BuildingLatitude:    valuation.BuildingLatitude,
			BuildingLongitude:   valuation.BuildingLongitude,
			NumberOfFloors:      valuation.NumberOfFloors,
			YearBuilt:           valuation.YearBuilt,
			VehicleMake:         valuation.VehicleMake,
			VehicleModel:        valuation.VehicleModel,
			VehicleYear:         valuation.VehicleYear,
			VehicleRegistration: valuation.VehicleRegistration,
			VehicleMileage:      valuation.VehicleMileage,
			VehicleCondition:    valuation.VehicleCondition,
			OtherType:           valuation.OtherType,
			OtherSpecifications: valuation.OtherSpecifications,
		},
		RejectionReason:     valuation.RejectionReason,
		AccessorComments:    valuation.AccessorComments,
		SubmittedReportPath: valuation.SubmittedReportPath,
		SVComments:          valuation.SVComments,
		FinalReportPath:     valuation.FinalReportPath,
		MDGMComments:        valuation.MDGMComments,
		CreatedAt:           valuation.CreatedAt,
		UpdatedAt:           valuation.UpdatedAt,
		SubmittedAt:         valuation.SubmittedAt,
	}
}

func newValuationHistoryResponse(entry models.ValuationHistory) valuationHistoryResponse {
	return valuationHistoryResponse{
		ID:            entry.ID,
		ValuationID:   entry.ValuationID,
		Action:        entry.Action,
		PerformedByID: entry.PerformedByID,
		Comments:      entry.Comments,
		CreatedAt:     entry.CreatedAt,
	}
}

func parseValuationID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "valuationId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid valuation id")
	}
	return id, nil
}

// CreateValuation opens a draft report for the calling field officer.
func CreateValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createValuationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseValuationCategory(body.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown valuation category"))
			return
		}

		valuation, err := svc.Create(r.Context(), valuations.CreateInput{
			ProjectID:      body.ProjectID,
			FieldOfficerID: middleware.UserIDFromContext(r.Context()),
			Category:       category,
			Description:    body.Description,
			EstimatedValue: body.EstimatedValue,
			Notes:          body.Notes,
			Details:        body.Details.toDetails(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newValuationResponse(valuation))
	}
}

// GetValuation returns one valuation by id.
func GetValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := svc.Get(r.Context(), valuationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}

// ListValuations returns paginated valuations filtered by project, field
// officer, status or category.
func ListValuations(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters valuations.ListFilters

		if raw := strings.TrimSpace(r.URL.Query().Get("project_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid project id"))
				return
			}
			filters.ProjectID = &id
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("field_officer_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid field officer id"))
				return
			}
			filters.FieldOfficerID = &id
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseValuationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown valuation status"))
				return
			}
			filters.Status = &status
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseValuationCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown valuation category"))
				return
			}
			filters.Category = &category
		}

		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagination.MapPage(page, func(valuation models.Valuation) valuationResponse {
			return newValuationResponse(&valuation)
		}))
	}
}

// ValuationHistory returns the review trail for a valuation, oldest
// action first.
func ValuationHistory(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.History(r.Context(), valuationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]valuationHistoryResponse, 0, len(entries))
		for _, entry := range entries {
			out = append(out, newValuationHistoryResponse(entry))
		}
		responses.WriteSuccess(w, out)
	}
}

// UpdateValuation edits a report the calling field officer still owns.
// Editing a submitted report inside the edit window reverts it to draft.
func UpdateValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateValuationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := valuations.UpdateInput{
			Description:    body.Description,
			EstimatedValue: body.EstimatedValue,
			Notes:          body.Notes,
		}
		if body.Details != nil {
			details := body.Details.toDetails()
			input.Details = &details
		}

		valuation, err := svc.Update(r.Context(), valuationID, middleware.UserIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}

// SubmitValuation sends a draft or rejected report into review.
func SubmitValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitValuationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := svc.Submit(r.Context(), valuationID, middleware.UserIDFromContext(r.Context()), body.ReportPath)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}

// AccessorAcceptValuation moves a submitted report to reviewed and hands
// it to the senior valuer.
func AccessorAcceptValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reviewCommentsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := svc.AccessorAccept(r.Context(), valuationID, middleware.UserIDFromContext(r.Context()), body.Comments)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}

// AccessorRejectValuation sends a report back to the field officer with
// a mandatory reason.
func AccessorRejectValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := svc.AccessorReject(r.Context(), valuationID, middleware.UserIDFromContext(r.Context()), body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}

// SVApproveValuation records the senior valuer's approval, optionally
// attaching the final report.
func SVApproveValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body svApproveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := svc.SVApprove(r.Context(), valuationID, middleware.UserIDFromContext(r.Context()), body.Comments, body.FinalReportPath)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}

// SVRejectValuation records the senior valuer's rejection.
func SVRejectValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := svc.SVReject(r.Context(), valuationID, middleware.UserIDFromContext(r.Context()), body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}

// MDGMApproveValuation records the final MD/GM sign-off.
func MDGMApproveValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reviewCommentsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := svc.MDGMApprove(r.Context(), valuationID, middleware.UserIDFromContext(r.Context()), body.Comments)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}

// MDGMRejectValuation records an MD/GM rejection.
func MDGMRejectValuation(svc valuations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		valuationID, err := parseValuationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		valuation, err := svc.MDGMReject(r.Context(), valuationID, middleware.UserIDFromContext(r.Context()), body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newValuationResponse(valuation))
	}
}
