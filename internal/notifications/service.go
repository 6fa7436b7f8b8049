package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

// Notice is a workflow event to deliver to a user.
type Notice struct {
	UserID      uuid.UUID
	Title       string
	Message     string
	Type        enums.NotificationType
	ValuationID *uuid.UUID
	ProjectID   *uuid.UUID
}

// Sink delivers a notice over one external channel (email, etc.).
type Sink interface {
	Deliver(ctx context.Context, notice Notice) error
}

// Service stores in-app notifications and fans the notice out to any
// configured sinks. Sink failures never fail the caller.
type Service interface {
	Notify(ctx context.Context, notice Notice)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[models.Notification], error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo  Repository
	sinks []Sink
	logg  *logger.Logger
}

// NewService wires the notifications service. Sinks are optional.
func NewService(repo Repository, logg *logger.Logger, sinks ...Sink) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, sinks: sinks, logg: logg}, nil
}

// Notify is best-effort end to end: the triggering workflow operation has
// already committed, so storage or delivery problems are logged and dropped.
func (s *service) Notify(ctx context.Context, notice Notice) {
	if notice.UserID == uuid.Nil {
		return
	}
	noticeType := notice.Type
	if noticeType == "" {
		noticeType = enums.NotificationTypeRejection
	}

	record := &models.Notification{
		UserID:      notice.UserID,
		Title:       notice.Title,
		Message:     notice.Message,
		Type:        noticeType,
		ValuationID: notice.ValuationID,
		ProjectID:   notice.ProjectID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logg.Error(ctx, "storing notification failed", err)
	}

	var delivery error
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, notice); err != nil {
			delivery = multierr.Append(delivery, err)
		}
	}
	if delivery != nil {
		s.logg.Error(ctx, "notification delivery failed", delivery)
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[models.Notification], error) {
	items, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return pagination.Page[models.Notification]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread")
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	affected, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark all read")
	}
	return affected, nil
}
