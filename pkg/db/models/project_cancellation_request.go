package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// ProjectCancellationRequest is a coordinator's request to cancel a
// project. At most one pending request may exist per project.
type ProjectCancellationRequest struct {
	ID            uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID     uuid.UUID                `gorm:"column:project_id;type:uuid;not null;index"`
	RequestedByID uuid.UUID                `gorm:"column:requested_by_id;type:uuid;not null"`
	Reason        string                   `gorm:"type:text;not null"`
	Status        enums.CancellationStatus `gorm:"type:text;not null;default:pending;index"`
	ReviewedByID  *uuid.UUID               `gorm:"column:reviewed_by_id;type:uuid"`
	AdminRemarks  *string                  `gorm:"column:admin_remarks"`
	ReviewedAt    *time.Time               `gorm:"column:reviewed_at"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
