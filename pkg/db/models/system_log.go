package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// SystemLog is one block on the append-only audit chain. Rows are never
// updated or deleted after insert; each links to its predecessor through
// PreviousHash.
type SystemLog struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BlockIndex   int64             `gorm:"column:block_index;not null;uniqueIndex"`
	Action       enums.LogAction   `gorm:"type:text;not null"`
	Category     enums.LogCategory `gorm:"type:text;not null;default:system;index"`
	ActorID      *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	TargetUserID *uuid.UUID        `gorm:"column:target_user_id;type:uuid"`
	Description  string            `gorm:"type:text;not null"`
	IPAddress    *string           `gorm:"column:ip_address"`
	Metadata     json.RawMessage   `gorm:"column:metadata;type:jsonb"`
	Timestamp    time.Time         `gorm:"column:timestamp;not null;index"`
	PreviousHash string            `gorm:"column:previous_hash;type:char(64);not null"`
	CurrentHash  string            `gorm:"column:current_hash;type:char(64);not null"`
}
