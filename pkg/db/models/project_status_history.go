package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// ProjectStatusHistory records each status a project passed through.
type ProjectStatusHistory struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID   uuid.UUID           `gorm:"column:project_id;type:uuid;not null;index"`
	Status      enums.ProjectStatus `gorm:"type:text;not null"`
	Stage       *string             `gorm:"column:stage"`
	Notes       string              `gorm:"type:text;not null;default:''"`
	CreatedByID *uuid.UUID          `gorm:"column:created_by_id;type:uuid"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
