package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/ieltsgenaiprep/backend/internal/evaluation"
	"github.com/ieltsgenaiprep/backend/internal/logging"
	"github.com/ieltsgenaiprep/backend/internal/messaging"
	"github.com/ieltsgenaiprep/backend/internal/models"
	"github.com/ieltsgenaiprep/backend/internal/notification"
	"github.com/ieltsgenaiprep/backend/internal/repository"
	appconfig "github.com/ieltsgenaiprep/backend/pkg/config"
)

// EvaluatorHandler consumes evaluation requests from SQS, scores the attempt
// and stores the result.
type EvaluatorHandler struct {
	config         *appconfig.Config
	attempts       repository.AttemptRepository
	registry       *evaluation.HandlerRegistry
	publisher      messaging.Publisher
	alerts         notification.Client
	batchProcessor *messaging.SQSBatchProcessor
	logger         *slog.Logger
}

// NewEvaluatorHandler creates a new evaluator handler instance
func NewEvaluatorHandler(
	cfg *appconfig.Config,
	attempts repository.AttemptRepository,
	registry *evaluation.HandlerRegistry,
	publisher messaging.Publisher,
	alerts notification.Client,
	logger *slog.Logger,
) *EvaluatorHandler {
	return &EvaluatorHandler{
		config:         cfg,
		attempts:       attempts,
		registry:       registry,
		publisher:      publisher,
		alerts:         alerts,
		batchProcessor: messaging.NewSQSBatchProcessor(logger),
		logger:         logger,
	}
}

// HandleEvent processes SQS events
func (h *EvaluatorHandler) HandleEvent(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	h.logger.InfoContext(ctx, "processing SQS batch",
		slog.Int("record_count", len(event.Records)),
		slog.String("stage", h.config.Stage.String()),
	)

	response, err := h.batchProcessor.ProcessBatch(ctx, event, h.processRequest)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch processing encountered errors",
			slog.String("error", err.Error()),
			slog.Int("failure_count", len(response.BatchItemFailures)),
		)
	}

	h.logger.InfoContext(ctx, "batch processing completed",
		slog.Int("total_records", len(event.Records)),
		slog.Int("failed_records", len(response.BatchItemFailures)),
	)

	return response, nil
}

// processRequest evaluates one attempt
func (h *EvaluatorHandler) processRequest(ctx context.Context, request *models.EvaluationRequest) error {
	h.logger.DebugContext(ctx, "processing evaluation request",
		slog.String("attempt_id", request.AttemptID),
		slog.String("assessment_type", request.Type.String()),
	)

	attempt, err := h.attempts.GetAttempt(ctx, request.AttemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// the attempt record is gone; retrying will not bring it back
			h.logger.ErrorContext(ctx, "attempt not found, dropping request",
				slog.String("attempt_id", request.AttemptID),
			)
			return nil
		}
		return fmt.Errorf("failed to load attempt: %w", err)
	}

	if attempt.Status == models.AttemptStatusCompleted {
		h.logger.InfoContext(ctx, "attempt already completed, skipping",
			slog.String("attempt_id", attempt.ID),
		)
		return nil
	}

	attempt.MarkProcessing()
	attempt.IncrementRetry()
	if err := h.attempts.IncrementRetry(ctx, attempt.ID); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist retry count",
			slog.String("attempt_id", attempt.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := h.attempts.UpdateStatus(ctx, attempt.ID, attempt.Status, ""); err != nil {
		h.logger.ErrorContext(ctx, "failed to update status to processing",
			slog.String("attempt_id", attempt.ID),
			slog.String("error", err.Error()),
		)
		// Continue processing even if status update fails
	}

	handler, err := h.registry.GetHandler(attempt.Type)
	if err != nil {
		attempt.MarkFailed(err.Error())
		if updateErr := h.attempts.UpdateStatus(ctx, attempt.ID, attempt.Status, attempt.ErrorMessage); updateErr != nil {
			h.logger.ErrorContext(ctx, "failed to update status to failed",
				slog.String("attempt_id", attempt.ID),
				slog.String("error", updateErr.Error()),
			)
		}
		// unknown type is permanent; do not redrive
		return nil
	}

	result, err := handler.Evaluate(ctx, attempt)
	if err != nil {
		h.logger.ErrorContext(ctx, "evaluation failed",
			slog.String("attempt_id", attempt.ID),
			slog.String("error", err.Error()),
		)

		attempt.MarkFailed(err.Error())
		if updateErr := h.attempts.UpdateStatus(ctx, attempt.ID, attempt.Status, attempt.ErrorMessage); updateErr != nil {
			h.logger.ErrorContext(ctx, "failed to update status to failed",
				slog.String("attempt_id", attempt.ID),
				slog.String("error", updateErr.Error()),
			)
		}

		if errors.Is(err, evaluation.ErrEmptySubmission) {
			// nothing to score; redriving would fail identically
			return nil
		}
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if err := h.attempts.SaveResult(ctx, attempt.ID, result); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	if result.Fallback {
		h.alertFallback(ctx, attempt)
	}

	notificationMsg := &models.ResultNotification{
		AttemptID:   attempt.ID,
		UserID:      attempt.UserID,
		Type:        attempt.Type,
		Stage:       attempt.Stage,
		OverallBand: result.OverallBand,
		Fallback:    result.Fallback,
		CompletedAt: time.Now().UTC(),
	}
	if err := h.publisher.PublishResultNotification(ctx, notificationMsg); err != nil {
		// the result is saved; a missed notification is not worth a redrive
		h.logger.ErrorContext(ctx, "failed to publish result notification",
			slog.String("attempt_id", attempt.ID),
			slog.String("error", err.Error()),
		)
	}

	h.logger.InfoContext(ctx, "attempt evaluated",
		slog.String("attempt_id", attempt.ID),
		slog.Float64("overall_band", float64(result.OverallBand)),
		slog.Bool("fallback", result.Fallback),
	)

	return nil
}

// alertFallback notifies ops that a deterministic fallback score was served
func (h *EvaluatorHandler) alertFallback(ctx context.Context, attempt *models.Attempt) {
	title := fmt.Sprintf("IELTS GenAI Prep - fallback score (%s)", h.config.Stage.String())
	message := fmt.Sprintf("Attempt %s (%s) was scored with the fallback result; model output could not be used.",
		attempt.ID, attempt.Type.String())

	if err := h.alerts.SendWithTitle(ctx, title, message); err != nil {
		h.logger.WarnContext(ctx, "failed to send fallback alert",
			slog.String("attempt_id", attempt.ID),
			slog.String("error", err.Error()),
		)
	}
}

func main() {
	logger := logging.New("evaluator")

	// Load configuration
	cfg := appconfig.MustLoad()

	logger.Info("evaluator lambda starting",
		slog.String("stage", cfg.Stage.String()),
		slog.String("region", cfg.AWSRegion),
		slog.String("model_id", cfg.EvaluationModelID),
	)

	// Initialize AWS SDK
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		logger.Error("failed to load AWS config", slog.String("error", err.Error()))
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}

	// Create AWS clients
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	snsClient := sns.NewFromConfig(awsCfg)
	bedrockClient := bedrockruntime.NewFromConfig(awsCfg)

	// Create repository and publisher
	attempts := repository.NewDynamoDBAttemptRepository(dynamoClient, cfg.AttemptsTableName)
	publisher := messaging.NewSNSPublisher(snsClient, cfg.EvaluationTopicArn, cfg.ResultsTopicArn, logger)

	// Create evaluation pipeline
	evaluator := evaluation.NewEvaluator(bedrockClient, cfg.EvaluationModelID, cfg.MaxSubmissionWords, logger)
	registry := evaluation.NewHandlerRegistry(logger)
	if err := registry.RegisterDefaults(evaluator); err != nil {
		logger.Error("failed to register evaluation handlers", slog.String("error", err.Error()))
		panic(fmt.Sprintf("failed to register evaluation handlers: %v", err))
	}

	// Create ops alert client
	alerts := notification.NewWebhookClient(notification.WebhookClientConfig{
		BaseURL:    cfg.OpsWebhookURL,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		Logger:     logger,
	})

	// Create handler
	handler := NewEvaluatorHandler(cfg, attempts, registry, publisher, alerts, logger)

	// Start Lambda handler
	lambda.Start(handler.HandleEvent)
}
