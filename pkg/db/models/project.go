package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// Project is a valuation engagement owned by a coordinator. Status moves
// only through the guarded transition operations in internal/projects.
type Project struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string              `gorm:"type:text;not null"`
	Description string              `gorm:"type:text;not null;default:''"`
	Priority    enums.Priority      `gorm:"type:text;not null;default:medium"`
	Status      enums.ProjectStatus `gorm:"type:text;not null;default:pending;index"`

	CoordinatorID         uuid.UUID  `gorm:"column:coordinator_id;type:uuid;not null"`
	AssignedFieldOfficer  *uuid.UUID `gorm:"column:assigned_field_officer_id;type:uuid"`
	AssignedClient        *uuid.UUID `gorm:"column:assigned_client_id;type:uuid"`
	AssignedAgent         *uuid.UUID `gorm:"column:assigned_agent_id;type:uuid"`
	AssignedAccessor      *uuid.UUID `gorm:"column:assigned_accessor_id;type:uuid"`
	AssignedSeniorValuer  *uuid.UUID `gorm:"column:assigned_senior_valuer_id;type:uuid"`
	HasAgent              bool       `gorm:"column:has_agent;not null;default:false"`

	StartDate *time.Time `gorm:"column:start_date"`
	EndDate   *time.Time `gorm:"column:end_date"`

	MDGMApprovalStatus  enums.ApprovalStatus `gorm:"column:md_gm_approval_status;type:text;not null;default:pending"`
	MDGMRejectionReason *string              `gorm:"column:md_gm_rejection_reason"`
	MDGMApprovedAt      *time.Time           `gorm:"column:md_gm_approved_at"`
	MDGMRejectedAt      *time.Time           `gorm:"column:md_gm_rejected_at"`

	EstimatedValue   decimal.Decimal `gorm:"column:estimated_value;type:numeric(12,2);not null"`
	PaymentCompleted bool            `gorm:"column:payment_completed;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
