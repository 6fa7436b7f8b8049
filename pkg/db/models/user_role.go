package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// UserRole binds a user to their single workflow role. A user without a
// row resolves to the unassigned role.
type UserRole struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Role         enums.Role `gorm:"type:text;not null"`
	AssignedByID *uuid.UUID `gorm:"column:assigned_by_id;type:uuid"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
