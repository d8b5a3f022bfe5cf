package service

import (
	"context"
	"encoding/json"
	"fmt"

	"groupmeet-api/core/errors"
	"groupmeet-api/core/logger"
	"groupmeet-api/core/params"
	"groupmeet-api/core/taskq"
	"groupmeet-api/modules/notification/entity"
	"groupmeet-api/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NotificationService persists and queries in-app notifications. It also
// serves as the asynq handler for notification:deliver tasks.
type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

type NotificationServiceInterface interface {
	GetMyNotifications(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)

	HandleDeliverTask(ctx context.Context, t *asynq.Task) error
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) NotificationServiceInterface {
	return &NotificationService{repo: repo}
}

// HandleDeliverTask consumes a notification:deliver task and persists the
// notification row. Returning an error makes asynq retry the task.
func (s *NotificationService) HandleDeliverTask(ctx context.Context, t *asynq.Task) error {
	var payload taskq.NotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal notification payload: %w: %w", err, asynq.SkipRetry)
	}

	notif := &entity.Notification{
		UserID:  payload.UserID,
		Title:   payload.Title,
		Message: payload.Message,
		Type:    payload.Type,
		Data:    entity.JSONB(payload.Data),
		IsRead:  false,
	}

	if err := s.repo.Create(ctx, notif); err != nil {
		logger.Error("NotificationService:HandleDeliverTask", err)
		return err
	}

	logger.Debug("NotificationService:HandleDeliverTask:Delivered",
		"notification_id", notif.ID, "user_id", payload.UserID, "type", payload.Type)
	return nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	result, err := s.repo.GetByUserID(ctx, userID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get notifications", err)
	}
	return result, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to mark as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to mark all as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to count unread", err)
	}
	return count, nil
}
