package taskq

import (
	"context"
	"encoding/json"

	"groupmeet-api/core/config"
	"groupmeet-api/core/constants"
	"groupmeet-api/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NotificationPayload is the body of a notification:deliver task. One task
// is enqueued per recipient.
type NotificationPayload struct {
	UserID  uuid.UUID      `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data,omitempty"`
}

// IEnqueuer is what services hold to emit notifications without depending
// on asynq directly.
type IEnqueuer interface {
	EnqueueNotification(ctx context.Context, payload NotificationPayload) error
}

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) EnqueueNotification(ctx context.Context, payload NotificationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(constants.TaskNotificationDeliver, data)
	info, err := c.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		logger.Error("TaskQueue:EnqueueNotification", err)
		return err
	}

	logger.Debug("TaskQueue:EnqueueNotification:Enqueued", "task_id", info.ID, "user_id", payload.UserID)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// StartWorker runs the asynq server in a goroutine with the given handlers.
func StartWorker(cfg *config.Config, mux *asynq.ServeMux) *asynq.Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{Concurrency: cfg.Worker.Concurrency},
	)

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("TaskQueue:Worker:Run", err)
		}
	}()

	return srv
}
