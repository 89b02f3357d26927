package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/ieltsgenaiprep/backend/internal/logging"
	"github.com/ieltsgenaiprep/backend/internal/models"
	"github.com/ieltsgenaiprep/backend/internal/notification"
	appconfig "github.com/ieltsgenaiprep/backend/pkg/config"
)

// ReminderHandler delivers study reminders when their EventBridge schedule fires
type ReminderHandler struct {
	config *appconfig.Config
	client notification.Client
	logger *slog.Logger
}

// NewReminderHandler creates a new reminder handler instance
func NewReminderHandler(cfg *appconfig.Config, client notification.Client, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{
		config: cfg,
		client: client,
		logger: logger,
	}
}

// HandleEvent processes a scheduled reminder invocation
func (h *ReminderHandler) HandleEvent(ctx context.Context, event models.ReminderEvent) error {
	h.logger.InfoContext(ctx, "reminder triggered",
		slog.String("reminder_id", event.ReminderID),
		slog.String("user_id", event.UserID),
	)

	if event.ReminderID == "" || event.Message == "" {
		return fmt.Errorf("invalid reminder event: reminder_id and message are required")
	}

	title := "IELTS Study Reminder"
	if err := h.client.SendWithTitle(ctx, title, event.Message); err != nil {
		return fmt.Errorf("failed to deliver reminder %s: %w", event.ReminderID, err)
	}

	h.logger.InfoContext(ctx, "reminder delivered",
		slog.String("reminder_id", event.ReminderID),
	)

	return nil
}

func main() {
	logger := logging.New("reminder")

	// Load configuration
	cfg := appconfig.MustLoad()

	logger.Info("reminder lambda starting",
		slog.String("stage", cfg.Stage.String()),
	)

	client := notification.NewWebhookClient(notification.WebhookClientConfig{
		BaseURL:    cfg.OpsWebhookURL,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		Logger:     logger,
	})

	handler := NewReminderHandler(cfg, client, logger)

	lambda.Start(handler.HandleEvent)
}
