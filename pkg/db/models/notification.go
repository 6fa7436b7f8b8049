package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// Notification stores in-app notification payloads for workflow events.
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Title       string                 `gorm:"type:text;not null"`
	Message     string                 `gorm:"type:text;not null"`
	Type        enums.NotificationType `gorm:"type:text;not null;default:rejection"`
	IsRead      bool                   `gorm:"column:is_read;not null;default:false"`
	ValuationID *uuid.UUID             `gorm:"column:valuation_id;type:uuid"`
	ProjectID   *uuid.UUID             `gorm:"column:project_id;type:uuid"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}
