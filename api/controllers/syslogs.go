package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/middleware"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/responses"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/validators"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/syslog"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

type systemLogResponse struct {
	ID           uuid.UUID         `json:"id"`
	BlockIndex   int64             `json:"block_index"`
	Action       enums.LogAction   `json:"action"`
	Category     enums.LogCategory `json:"category"`
	ActorID      *uuid.UUID        `json:"actor_id,omitempty"`
	TargetUserID *uuid.UUID        `json:"target_user_id,omitempty"`
	Description  string            `json:"description"`
	IPAddress    *string           `json:"ip_address,omitempty"`
	Metadata     json.RawMessage   `json:"metadata,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
	PreviousHash string            `json:"previous_hash"`
	CurrentHash  string            `json:"current_hash"`
}

func newSystemLogResponse(entry models.SystemLog) systemLogResponse {
	return systemLogResponse{
		ID:           entry.ID,
		BlockIndex:   entry.BlockIndex,
		Action:       entry.Action,
		Category:     entry.Category,
		ActorID:      entry.ActorID,
		TargetUserID: entry.TargetUserID,
		Description:  entry.Description,
		IPAddress:    entry.IPAddress,
		Metadata:     entry.Metadata,
		Timestamp:    entry.Timestamp,
		PreviousHash: entry.PreviousHash,
		CurrentHash:  entry.CurrentHash,
	}
}

// ListSystemLogs returns paginated audit chain entries, optionally
// filtered by category, action or free-text search.
func ListSystemLogs(svc syslog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := syslog.ListFilters{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseLogCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown log category"))
				return
			}
			filters.Category = string(category)
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("action")); raw != "" {
			action, err := enums.ParseLogAction(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown log action"))
				return
			}
			filters.Action = string(action)
		}

		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagination.MapPage(page, newSystemLogResponse))
	}
}

// VerifyAuditChain walks the full chain and reports the first broken
// link, if any. The verification itself is appended to the chain.
func VerifyAuditChain(svc syslog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := middleware.UserIDFromContext(r.Context())
		result, err := svc.VerifyChain(r.Context(), &actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
