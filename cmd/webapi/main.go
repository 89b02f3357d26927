package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsscheduler "github.com/aws/aws-sdk-go-v2/service/scheduler"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/ieltsgenaiprep/backend/internal/auth"
	"github.com/ieltsgenaiprep/backend/internal/logging"
	"github.com/ieltsgenaiprep/backend/internal/messaging"
	"github.com/ieltsgenaiprep/backend/internal/models"
	"github.com/ieltsgenaiprep/backend/internal/repository"
	"github.com/ieltsgenaiprep/backend/internal/scheduler"
	"github.com/ieltsgenaiprep/backend/internal/secrets"
	"github.com/ieltsgenaiprep/backend/internal/speech"
	appconfig "github.com/ieltsgenaiprep/backend/pkg/config"
	"github.com/ieltsgenaiprep/backend/pkg/rubrics"
)

// WebAPIHandler handles API Gateway requests
type WebAPIHandler struct {
	config      *appconfig.Config
	auth        *auth.Service
	users       repository.UserRepository
	attempts    repository.AttemptRepository
	reminders   repository.ReminderRepository
	publisher   messaging.Publisher
	synthesizer *speech.Synthesizer
	schedules   *scheduler.ReminderScheduler
	logger      *slog.Logger
}

// NewWebAPIHandler creates a new web API handler instance
func NewWebAPIHandler(
	cfg *appconfig.Config,
	authService *auth.Service,
	users repository.UserRepository,
	attempts repository.AttemptRepository,
	reminders repository.ReminderRepository,
	publisher messaging.Publisher,
	synthesizer *speech.Synthesizer,
	schedules *scheduler.ReminderScheduler,
	logger *slog.Logger,
) *WebAPIHandler {
	return &WebAPIHandler{
		config:      cfg,
		auth:        authService,
		users:       users,
		attempts:    attempts,
		reminders:   reminders,
		publisher:   publisher,
		synthesizer: synthesizer,
		schedules:   schedules,
		logger:      logger,
	}
}

// HandleRequest routes API Gateway V2 requests to appropriate handlers
func (h *WebAPIHandler) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	h.logger.DebugContext(ctx, "received API request",
		slog.String("method", request.RequestContext.HTTP.Method),
		slog.String("path", request.RawPath),
	)

	// Add CORS headers
	headers := map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, DELETE, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}

	// Handle OPTIONS for CORS preflight
	if request.RequestContext.HTTP.Method == "OPTIONS" {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers:    headers,
		}, nil
	}

	// Route requests
	var response events.APIGatewayV2HTTPResponse
	var err error

	path := request.RawPath
	if path == "" {
		path = request.RequestContext.HTTP.Path
	}
	method := request.RequestContext.HTTP.Method

	switch {
	case path == "/api/health" && method == "GET":
		response, err = h.handleHealth(ctx)
	case path == "/api/register" && method == "POST":
		response, err = h.handleRegister(ctx, request)
	case path == "/api/login" && method == "POST":
		response, err = h.handleLogin(ctx, request)
	case path == "/api/logout" && method == "POST":
		response, err = h.handleLogout(ctx, request)
	case path == "/api/profile" && method == "GET":
		response, err = h.handleProfile(ctx, request)
	case path == "/api/assessments" && method == "GET":
		if request.QueryStringParameters["mine"] == "1" {
			response, err = h.handleListAttempts(ctx, request)
		} else {
			response, err = h.handleListAssessments(ctx)
		}
	case path == "/api/assessments/submit" && method == "POST":
		response, err = h.handleSubmit(ctx, request)
	case strings.HasPrefix(path, "/api/assessments/") && method == "GET":
		response, err = h.handleGetAttempt(ctx, request, strings.TrimPrefix(path, "/api/assessments/"))
	case path == "/api/speech/prompt" && method == "POST":
		response, err = h.handleSpeechPrompt(ctx, request)
	case path == "/api/reminders" && method == "GET":
		response, err = h.handleListReminders(ctx, request)
	case path == "/api/reminders" && method == "POST":
		response, err = h.handleCreateReminder(ctx, request)
	case strings.HasPrefix(path, "/api/reminders/") && method == "DELETE":
		response, err = h.handleDeleteReminder(ctx, request, strings.TrimPrefix(path, "/api/reminders/"))
	default:
		response = h.createErrorResponse(http.StatusNotFound, "endpoint not found")
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "request handler error",
			slog.String("error", err.Error()),
		)
	}

	// Add CORS headers to response
	if response.Headers == nil {
		response.Headers = headers
	} else {
		for k, v := range headers {
			response.Headers[k] = v
		}
	}

	return response, err
}

// authenticate extracts and verifies the bearer token on a request
func (h *WebAPIHandler) authenticate(ctx context.Context, request events.APIGatewayV2HTTPRequest) (*auth.SessionClaims, error) {
	header := request.Headers["authorization"]
	if header == "" {
		header = request.Headers["Authorization"]
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, fmt.Errorf("missing bearer token")
	}

	return h.auth.Verify(ctx, token)
}

// handleHealth returns the health status of the API
func (h *WebAPIHandler) handleHealth(ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"stage":     h.config.Stage.String(),
	}

	return h.createJSONResponse(http.StatusOK, health)
}

// RegisterRequest represents a request to create a new account
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// handleRegister creates a new user account
func (h *WebAPIHandler) handleRegister(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var req RegisterRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return h.createErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	user, err := h.auth.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return h.createErrorResponse(http.StatusConflict, err.Error()), nil
		}
		return h.createErrorResponse(http.StatusBadRequest, err.Error()), nil
	}

	return h.createJSONResponse(http.StatusCreated, user)
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and returns a session token
func (h *WebAPIHandler) handleLogin(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var req LoginRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return h.createErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	token, user, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return h.createErrorResponse(http.StatusUnauthorized, err.Error()), nil
		}
		return h.createErrorResponse(http.StatusInternalServerError, "login failed"), err
	}

	return h.createJSONResponse(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// handleLogout revokes the session carried by the bearer token
func (h *WebAPIHandler) handleLogout(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	header := request.Headers["authorization"]
	if header == "" {
		header = request.Headers["Authorization"]
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return h.createErrorResponse(http.StatusUnauthorized, "missing bearer token"), nil
	}

	if err := h.auth.Logout(ctx, token); err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "invalid session"), nil
	}

	return h.createJSONResponse(http.StatusOK, map[string]string{"status": "logged out"})
}

// handleProfile returns the authenticated user's account
func (h *WebAPIHandler) handleProfile(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	claims, err := h.authenticate(ctx, request)
	if err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "authentication required"), nil
	}

	user, err := h.users.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.createErrorResponse(http.StatusNotFound, "account not found"), nil
		}
		return h.createErrorResponse(http.StatusInternalServerError, "failed to load profile"), err
	}

	attempts, err := h.attempts.ListAttemptsByUser(ctx, claims.Subject, 200)
	if err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to load profile"), err
	}

	counts := make(map[string]int)
	completed := 0
	for _, attempt := range attempts {
		counts[attempt.Type.String()]++
		if attempt.Status == models.AttemptStatusCompleted {
			completed++
		}
	}

	return h.createJSONResponse(http.StatusOK, map[string]interface{}{
		"user":               user,
		"attempt_counts":     counts,
		"total_attempts":     len(attempts),
		"completed_attempts": completed,
	})
}

// SubmitRequest represents an assessment submission
type SubmitRequest struct {
	Type       models.AssessmentType `json:"type"`
	TaskPrompt string                `json:"task_prompt"`
	Text       string                `json:"text"`
}

// handleSubmit accepts an assessment submission, stores the attempt and
// queues it for evaluation. The response is a 202 with the attempt; the
// result arrives asynchronously.
func (h *WebAPIHandler) handleSubmit(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	claims, err := h.authenticate(ctx, request)
	if err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "authentication required"), nil
	}

	var req SubmitRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return h.createErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	if !req.Type.IsValid() {
		return h.createErrorResponse(http.StatusBadRequest, "invalid assessment type"), nil
	}
	if strings.TrimSpace(req.Text) == "" {
		return h.createErrorResponse(http.StatusBadRequest, "submission text is required"), nil
	}
	if len(strings.Fields(req.Text)) > h.config.MaxSubmissionWords {
		return h.createErrorResponse(http.StatusBadRequest,
			fmt.Sprintf("submission exceeds the %d word limit", h.config.MaxSubmissionWords)), nil
	}

	attempt := models.NewAttempt(claims.Subject, h.config.Stage, req.Type, req.TaskPrompt, req.Text)

	h.logger.InfoContext(ctx, "accepting assessment submission",
		slog.String("attempt_id", attempt.ID),
		slog.String("user_id", claims.Subject),
		slog.String("assessment_type", req.Type.String()),
	)

	if err := h.attempts.SaveAttempt(ctx, attempt); err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to save attempt"), err
	}

	evalRequest := &models.EvaluationRequest{
		AttemptID:   attempt.ID,
		UserID:      attempt.UserID,
		Type:        attempt.Type,
		Stage:       attempt.Stage,
		RequestedAt: time.Now().UTC(),
	}
	if err := h.publisher.PublishEvaluationRequest(ctx, evalRequest); err != nil {
		h.logger.ErrorContext(ctx, "failed to queue evaluation", slog.String("error", err.Error()))
		return h.createErrorResponse(http.StatusInternalServerError, "failed to queue evaluation"), err
	}

	attempt.MarkQueued()
	if err := h.attempts.UpdateStatus(ctx, attempt.ID, attempt.Status, ""); err != nil {
		h.logger.ErrorContext(ctx, "failed to update attempt status", slog.String("error", err.Error()))
	}

	return h.createJSONResponse(http.StatusAccepted, attempt)
}

// handleListAssessments returns the catalog of assessment products with
// their task prompts. The catalog comes from the embedded rubrics and
// needs no authentication.
func (h *WebAPIHandler) handleListAssessments(ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	config, err := rubrics.Load()
	if err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to load assessments"), err
	}

	products := make([]map[string]interface{}, 0, len(config.Rubrics))
	for _, r := range config.Rubrics {
		products = append(products, map[string]interface{}{
			"type":         r.Type,
			"title":        r.Title,
			"task_prompts": r.TaskPrompts,
		})
	}

	return h.createJSONResponse(http.StatusOK, map[string]interface{}{
		"assessments": products,
		"count":       len(products),
	})
}

// handleListAttempts returns the authenticated user's attempts, newest first
func (h *WebAPIHandler) handleListAttempts(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	claims, err := h.authenticate(ctx, request)
	if err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "authentication required"), nil
	}

	limit := 50
	if limitParam, ok := request.QueryStringParameters["limit"]; ok && limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}

	attempts, err := h.attempts.ListAttemptsByUser(ctx, claims.Subject, limit)
	if err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to retrieve attempts"), err
	}

	return h.createJSONResponse(http.StatusOK, map[string]interface{}{
		"attempts": attempts,
		"count":    len(attempts),
	})
}

// handleGetAttempt returns one attempt, including its result once completed
func (h *WebAPIHandler) handleGetAttempt(ctx context.Context, request events.APIGatewayV2HTTPRequest, id string) (events.APIGatewayV2HTTPResponse, error) {
	claims, err := h.authenticate(ctx, request)
	if err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "authentication required"), nil
	}

	attempt, err := h.attempts.GetAttempt(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.createErrorResponse(http.StatusNotFound, "attempt not found"), nil
		}
		return h.createErrorResponse(http.StatusInternalServerError, "failed to retrieve attempt"), err
	}

	// attempts are private to their owner
	if attempt.UserID != claims.Subject {
		return h.createErrorResponse(http.StatusNotFound, "attempt not found"), nil
	}

	return h.createJSONResponse(http.StatusOK, attempt)
}

// SpeechPromptRequest selects the speaking assessment to voice
type SpeechPromptRequest struct {
	Type models.AssessmentType `json:"type"`
}

// handleSpeechPrompt picks a task prompt for a speaking assessment and
// returns it with synthesized examiner audio.
func (h *WebAPIHandler) handleSpeechPrompt(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := h.authenticate(ctx, request); err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "authentication required"), nil
	}

	var req SpeechPromptRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return h.createErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	assessmentType := req.Type
	if !assessmentType.IsValid() || assessmentType.IsWriting() {
		return h.createErrorResponse(http.StatusBadRequest, "type must be a speaking assessment"), nil
	}

	rubric, err := rubrics.ForType(assessmentType)
	if err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to load assessment"), err
	}
	if len(rubric.TaskPrompts) == 0 {
		return h.createErrorResponse(http.StatusInternalServerError, "no task prompts configured"), nil
	}

	taskPrompt := rubric.TaskPrompts[rand.Intn(len(rubric.TaskPrompts))]

	audio, err := h.synthesizer.Synthesize(ctx, taskPrompt)
	if err != nil {
		h.logger.ErrorContext(ctx, "speech synthesis failed", slog.String("error", err.Error()))
		// still deliver the prompt; the client can render it as text
		return h.createJSONResponse(http.StatusOK, map[string]interface{}{
			"type":        assessmentType,
			"task_prompt": taskPrompt,
		})
	}

	return h.createJSONResponse(http.StatusOK, map[string]interface{}{
		"type":         assessmentType,
		"task_prompt":  taskPrompt,
		"audio":        base64.StdEncoding.EncodeToString(audio.Audio),
		"content_type": audio.ContentType,
	})
}

// CreateReminderRequest represents a request to create a study reminder
type CreateReminderRequest struct {
	Message            string `json:"message"`
	ScheduleExpression string `json:"schedule_expression"`
	Timezone           string `json:"timezone"`
}

// handleCreateReminder creates a study reminder and its EventBridge schedule
func (h *WebAPIHandler) handleCreateReminder(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	claims, err := h.authenticate(ctx, request)
	if err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "authentication required"), nil
	}

	var req CreateReminderRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return h.createErrorResponse(http.StatusBadRequest, "invalid request body"), nil
	}

	reminder := models.NewReminder(claims.Subject, req.Message, req.ScheduleExpression, req.Timezone)
	if err := reminder.Validate(); err != nil {
		return h.createErrorResponse(http.StatusBadRequest, err.Error()), nil
	}

	arn, err := h.schedules.CreateReminderSchedule(ctx, reminder)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create reminder schedule", slog.String("error", err.Error()))
		reminder.MarkError(err.Error())
		if saveErr := h.reminders.SaveReminder(ctx, reminder); saveErr != nil {
			h.logger.ErrorContext(ctx, "failed to save errored reminder", slog.String("error", saveErr.Error()))
		}
		return h.createErrorResponse(http.StatusBadRequest, "failed to schedule reminder"), err
	}

	reminder.ScheduleArn = arn
	if err := h.reminders.SaveReminder(ctx, reminder); err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to save reminder"), err
	}

	return h.createJSONResponse(http.StatusCreated, reminder)
}

// handleListReminders returns the authenticated user's reminders
func (h *WebAPIHandler) handleListReminders(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	claims, err := h.authenticate(ctx, request)
	if err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "authentication required"), nil
	}

	reminders, err := h.reminders.ListRemindersByUser(ctx, claims.Subject)
	if err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to retrieve reminders"), err
	}

	return h.createJSONResponse(http.StatusOK, map[string]interface{}{
		"reminders": reminders,
		"count":     len(reminders),
	})
}

// handleDeleteReminder removes a reminder and its EventBridge schedule
func (h *WebAPIHandler) handleDeleteReminder(ctx context.Context, request events.APIGatewayV2HTTPRequest, id string) (events.APIGatewayV2HTTPResponse, error) {
	claims, err := h.authenticate(ctx, request)
	if err != nil {
		return h.createErrorResponse(http.StatusUnauthorized, "authentication required"), nil
	}

	reminder, err := h.reminders.GetReminder(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.createErrorResponse(http.StatusNotFound, "reminder not found"), nil
		}
		return h.createErrorResponse(http.StatusInternalServerError, "failed to retrieve reminder"), err
	}

	if reminder.UserID != claims.Subject {
		return h.createErrorResponse(http.StatusNotFound, "reminder not found"), nil
	}

	if err := h.schedules.DeleteReminderSchedule(ctx, reminder); err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to delete reminder schedule"), err
	}

	reminder.MarkDeleted()
	if err := h.reminders.UpdateReminder(ctx, reminder); err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to update reminder"), err
	}

	return h.createJSONResponse(http.StatusOK, reminder)
}

// createJSONResponse marshals a body into a JSON response
func (h *WebAPIHandler) createJSONResponse(statusCode int, body interface{}) (events.APIGatewayV2HTTPResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return h.createErrorResponse(http.StatusInternalServerError, "failed to marshal response"), err
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(data),
	}, nil
}

// createErrorResponse creates a standardized error response
func (h *WebAPIHandler) createErrorResponse(statusCode int, message string) events.APIGatewayV2HTTPResponse {
	errorBody := map[string]string{
		"error":  message,
		"status": strconv.Itoa(statusCode),
	}
	body, _ := json.Marshal(errorBody)

	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(body),
	}
}

func main() {
	logger := logging.New("webapi")

	// Load configuration
	cfg := appconfig.MustLoad()

	logger.Info("web api lambda starting",
		slog.String("stage", cfg.Stage.String()),
		slog.String("region", cfg.AWSRegion),
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
	schedulerClient := awsscheduler.NewFromConfig(awsCfg)

	// Create repositories
	users := repository.NewDynamoDBUserRepository(dynamoClient, cfg.UsersTableName)
	sessions := repository.NewDynamoDBSessionRepository(dynamoClient, cfg.SessionsTableName)
	attempts := repository.NewDynamoDBAttemptRepository(dynamoClient, cfg.AttemptsTableName)
	reminders := repository.NewDynamoDBReminderRepository(dynamoClient, cfg.RemindersTableName)

	// Create services
	secretsManager := secrets.NewManager(awsCfg, logger)
	authService := auth.NewService(users, sessions, secretsManager, cfg.TokenSecretName, cfg.TokenTTL, cfg.SessionTTL, logger)
	publisher := messaging.NewSNSPublisher(snsClient, cfg.EvaluationTopicArn, cfg.ResultsTopicArn, logger)
	synthesizer := speech.NewSynthesizer(bedrockClient, cfg.SpeechModelID, logger)
	reminderScheduler := scheduler.NewReminderScheduler(
		schedulerClient,
		cfg.ScheduleGroupName,
		cfg.ReminderLambdaArn,
		cfg.SchedulerExecutionRoleArn,
		cfg.Stage,
		logger,
	)

	// Create handler
	handler := NewWebAPIHandler(cfg, authService, users, attempts, reminders, publisher, synthesizer, reminderScheduler, logger)

	// Start Lambda handler
	lambda.Start(handler.HandleRequest)
}
