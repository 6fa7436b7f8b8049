package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/middleware"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/responses"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/validators"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/projects"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
)

type paymentRequestBody struct {
	Instructions string `json:"instructions"`
}

type bankSlipRequest struct {
	SlipPath    string `json:"slip_path" validate:"required"`
	ClientNotes string `json:"client_notes"`
}

type approvePaymentRequest struct {
	Notes string `json:"notes"`
}

type paymentResponse struct {
	ID             uuid.UUID           `json:"id"`
	ProjectID      uuid.UUID           `json:"project_id"`
	EstimatedValue decimal.Decimal     `json:"estimated_value"`
	Status         enums.PaymentStatus `json:"status"`

	BankSlipPath       *string    `json:"bank_slip_path,omitempty"`
	BankSlipUploadedAt *time.Time `json:"bank_slip_uploaded_at,omitempty"`
	BankSlipUploadedBy *uuid.UUID `json:"bank_slip_uploaded_by_id,omitempty"`

	RequestedAt *time.Time `json:"requested_at,omitempty"`
	RequestedBy *uuid.UUID `json:"requested_by_id,omitempty"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *uuid.UUID `json:"approved_by_id,omitempty"`

	RejectionReason *string    `json:"rejection_reason,omitempty"`
	RejectionCount  int        `json:"rejection_count"`
	LastRejectedAt  *time.Time `json:"last_rejected_at,omitempty"`

	CoordinatorNotes    string `json:"coordinator_notes"`
	ClientNotes         string `json:"client_notes"`
	PaymentInstructions string `json:"payment_instructions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPaymentResponse(payment *models.ProjectPayment) paymentResponse {
	return paymentResponse{
		ID:                  payment.ID,
		ProjectID:           payment.ProjectID,
		EstimatedValue:      payment.EstimatedValue,
		Status:              payment.Status,
		BankSlipPath:        payment.BankSlipPath,
		BankSlipUploadedAt:  payment.BankSlipUploadedAt,
		BankSlipUploadedBy:  payment.BankSlipUploadedBy,
		RequestedAt:         payment.RequestedAt,
		RequestedBy:         payment.RequestedBy,
		ApprovedAt:          payment.ApprovedAt,
		ApprovedBy:          payment.ApprovedBy,
		RejectionReason:     payment.RejectionReason,
		RejectionCount:      payment.RejectionCount,
		LastRejectedAt:      payment.LastRejectedAt,
		CoordinatorNotes:    payment.CoordinatorNotes,
		ClientNotes:         payment.ClientNotes,
		PaymentInstructions: payment.PaymentInstructions,
		CreatedAt:           payment.CreatedAt,
		UpdatedAt:           payment.UpdatedAt,
	}
}

// GetProjectPayment returns the payment record for a project.
func GetProjectPayment(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.Payment(r.Context(), projectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}

// SendPaymentRequest asks the client to pay, optionally carrying
// payment instructions.
func SendPaymentRequest(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.SendPaymentRequest(r.Context(), projectID, middleware.UserIDFromContext(r.Context()), body.Instructions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}

// SubmitBankSlip records the client's proof of payment.
func SubmitBankSlip(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body bankSlipRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.SubmitBankSlip(r.Context(), projectID, middleware.UserIDFromContext(r.Context()), body.SlipPath, body.ClientNotes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}

// ApprovePayment accepts a submitted bank slip and marks the project paid.
func ApprovePayment(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body approvePaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.ApprovePayment(r.Context(), projectID, middleware.UserIDFromContext(r.Context()), body.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}

// RejectPayment turns down a submitted bank slip with a mandatory reason.
func RejectPayment(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		payment, err := svc.RejectPayment(r.Context(), projectID, middleware.UserIDFromContext(r.Context()), body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}
