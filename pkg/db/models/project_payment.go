package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// ProjectPayment tracks the client payment cycle for a project. One row
// per project.
type ProjectPayment struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID      uuid.UUID           `gorm:"column:project_id;type:uuid;not null;uniqueIndex"`
	EstimatedValue decimal.Decimal     `gorm:"column:estimated_value;type:numeric(12,2);not null"`
	Status         enums.PaymentStatus `gorm:"column:status;type:text;not null;default:pending;index"`

	BankSlipPath       *string    `gorm:"column:bank_slip_path"`
	BankSlipUploadedAt *time.Time `gorm:"column:bank_slip_uploaded_at"`
	BankSlipUploadedBy *uuid.UUID `gorm:"column:bank_slip_uploaded_by_id;type:uuid"`

	RequestedAt *time.Time `gorm:"column:requested_at"`
	RequestedBy *uuid.UUID `gorm:"column:requested_by_id;type:uuid"`

	ApprovedAt *time.Time `gorm:"column:approved_at"`
	ApprovedBy *uuid.UUID `gorm:"column:approved_by_id;type:uuid"`

	RejectionReason *string    `gorm:"column:rejection_reason"`
	RejectionCount  int        `gorm:"column:rejection_count;not null;default:0"`
	LastRejectedAt  *time.Time `gorm:"column:last_rejected_at"`

	CoordinatorNotes    string `gorm:"column:coordinator_notes;type:text;not null;default:''"`
	ClientNotes         string `gorm:"column:client_notes;type:text;not null;default:''"`
	PaymentInstructions string `gorm:"column:payment_instructions;type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
