package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// ValuationHistory records a single review action taken on a valuation.
// Rows are append-only; together they form the report's review trail.
type ValuationHistory struct {
	ID            uuid.UUID                    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ValuationID   uuid.UUID                    `gorm:"column:valuation_id;type:uuid;not null;index"`
	Action        enums.ValuationHistoryAction `gorm:"type:text;not null"`
	PerformedByID *uuid.UUID                   `gorm:"column:performed_by_id;type:uuid"`
	Comments      string                       `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time                    `gorm:"column:created_at;autoCreateTime"`
}
