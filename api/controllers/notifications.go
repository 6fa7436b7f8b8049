package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/middleware"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/responses"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/validators"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/notifications"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

type notificationResponse struct {
	ID          uuid.UUID              `json:"id"`
	UserID      uuid.UUID              `json:"user_id"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Type        enums.NotificationType `json:"type"`
	IsRead      bool                   `json:"is_read"`
	ValuationID *uuid.UUID             `json:"valuation_id,omitempty"`
	ProjectID   *uuid.UUID             `json:"project_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

func newNotificationResponse(notification models.Notification) notificationResponse {
	return notificationResponse{
		ID:          notification.ID,
		UserID:      notification.UserID,
		Title:       notification.Title,
		Message:     notification.Message,
		Type:        notification.Type,
		IsRead:      notification.IsRead,
		ValuationID: notification.ValuationID,
		ProjectID:   notification.ProjectID,
		CreatedAt:   notification.CreatedAt,
	}
}

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagination.MapPage(page, newNotificationResponse))
	}
}

// UnreadNotificationCount returns how many unread notifications the
// caller has.
func UnreadNotificationCount(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.UnreadCount(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"unread_count": count})
	}
}

// MarkNotificationRead marks one of the caller's notifications read.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(chi.URLParam(r, "notificationId"))
		notificationID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		if err := svc.MarkRead(r.Context(), middleware.UserIDFromContext(r.Context()), notificationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

// MarkAllNotificationsRead marks every unread notification read and
// reports how many rows changed.
func MarkAllNotificationsRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := svc.MarkAllRead(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}
