// internal/workers/evaluation/evaluate-combination/handler.go
package evaluatecombination

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	apperrors "devicelife-worker/internal/common/errors"
	"devicelife-worker/internal/common/logger"
	"devicelife-worker/internal/common/metrics"
	"devicelife-worker/internal/common/observability"
	"devicelife-worker/internal/engine"
	"devicelife-worker/internal/models"
)

const (
	TaskType = "evaluate-combination"
)

const (
	outcomeSubmitted = "submitted"
	outcomeDuplicate = "skipped_duplicate"
	outcomeFailed    = "failed"
)

// Backend serves payloads and accepts results.
type Backend interface {
	GetPayload(ctx context.Context, combinationID int64) (*models.DevicePayload, error)
	SubmitResult(ctx context.Context, result models.EvaluationResult) error
}

// Ledger records which combination versions were already submitted.
type Ledger interface {
	IsSubmitted(ctx context.Context, combinationID, evaluationVersion int64) (bool, error)
	MarkSubmitted(ctx context.Context, combinationID, evaluationVersion int64) error
}

type EventPublisher interface {
	PublishEvaluationCompleted(ctx context.Context, jobKey int64, result models.EvaluationResult) (string, error)
}

type Handler struct {
	config    *Config
	backend   Backend
	ledger    Ledger
	events    EventPublisher
	evaluator *engine.Evaluator
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

// HandlerOptions wires the handler. Ledger, Events and Observability are optional.
type HandlerOptions struct {
	Config        *Config
	Backend       Backend
	Ledger        Ledger
	Events        EventPublisher
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) *Handler {
	log := opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{Timeout: 30 * time.Second}
	}
	obs := opts.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Handler{
		config:    cfg,
		backend:   opts.Backend,
		ledger:    opts.Ledger,
		events:    opts.Events,
		evaluator: engine.NewEvaluator(),
		errors:    apperrors.NewErrorHandler(log),
		obs:       obs,
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
		"retries":     job.Retries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("job.key", job.Key))
	defer span.End()

	output, err := h.process(ctx, job)
	if err != nil {
		span.RecordError(err)
		h.failJob(client, job, err, start)
		return
	}
	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, "completed")
	h.obs.RecordJobDuration(ctx, time.Since(start), "completed")
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := DecodeInput(job.Variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, job.Key, input)
}

// DecodeInput parses job variables into an Input with a positive combination id.
func DecodeInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidJobMessageError(fmt.Sprintf("parse variables: %v", err))
	}
	if input.TargetID() <= 0 {
		return nil, apperrors.NewInvalidJobMessageError("combinationId or evaluationId must be a positive integer")
	}
	return &input, nil
}

// Execute fetches, scores and submits one combination. Ledger and event
// failures are logged and never fail the evaluation.
func (h *Handler) Execute(ctx context.Context, jobKey int64, input *Input) (*Output, error) {
	combinationID := input.TargetID()
	log := h.logger.WithFields(map[string]interface{}{
		"jobKey":        jobKey,
		"combinationId": combinationID,
	})

	payload, err := h.backend.GetPayload(ctx, combinationID)
	if err != nil {
		return nil, err
	}

	result := h.evaluator.Evaluate(payload)
	metrics.ObserveEvaluation(
		result.CompatibilityScore, result.ConvenienceScore, result.LifestyleScore,
		string(result.CompatibilityGrade), string(result.ConvenienceGrade), string(result.LifestyleGrade),
	)
	h.obs.RecordTotalScore(ctx, result.TotalScore)

	log.Info("combination evaluated", map[string]interface{}{
		"evaluationVersion":  result.EvaluationVersion,
		"devices":            len(payload.Devices),
		"totalScore":         result.TotalScore,
		"compatibilityScore": result.CompatibilityScore,
		"convenienceScore":   result.ConvenienceScore,
		"lifestyleScore":     result.LifestyleScore,
	})

	output := &Output{EvaluationResult: result}

	if h.alreadySubmitted(ctx, log, result) {
		log.Info("result already submitted, skipping post", map[string]interface{}{
			"evaluationVersion": result.EvaluationVersion,
		})
		metrics.ResultSubmissions.WithLabelValues(outcomeDuplicate).Inc()
		output.DuplicateSubmission = true
		return output, nil
	}

	if err := h.backend.SubmitResult(ctx, result); err != nil {
		metrics.ResultSubmissions.WithLabelValues(outcomeFailed).Inc()
		return nil, err
	}
	metrics.ResultSubmissions.WithLabelValues(outcomeSubmitted).Inc()
	output.ResultSubmitted = true
	h.markSubmitted(ctx, log, result)

	output.EventMessageID = h.publish(ctx, log, jobKey, result)
	return output, nil
}

func (h *Handler) alreadySubmitted(ctx context.Context, log logger.Logger, result models.EvaluationResult) bool {
	if h.ledger == nil {
		return false
	}
	submitted, err := h.ledger.IsSubmitted(ctx, result.CombinationID, result.EvaluationVersion)
	if err != nil {
		log.Warn("submission ledger unavailable", map[string]interface{}{
			"error": apperrors.NewCacheUnavailableError(err).Error(),
		})
		return false
	}
	return submitted
}

func (h *Handler) markSubmitted(ctx context.Context, log logger.Logger, result models.EvaluationResult) {
	if h.ledger == nil {
		return
	}
	if err := h.ledger.MarkSubmitted(ctx, result.CombinationID, result.EvaluationVersion); err != nil {
		log.Warn("failed to record submission", map[string]interface{}{
			"error": apperrors.NewCacheUnavailableError(err).Error(),
		})
	}
}

func (h *Handler) publish(ctx context.Context, log logger.Logger, jobKey int64, result models.EvaluationResult) string {
	if h.events == nil {
		return ""
	}
	messageID, err := h.events.PublishEvaluationCompleted(ctx, jobKey, result)
	if err != nil {
		log.Warn("failed to publish evaluation event", map[string]interface{}{
			"error": apperrors.NewEventPublishFailedError("evaluation.completed", err).Error(),
		})
		return ""
	}
	return messageID
}

// reportContext bounds a job report independently of the job deadline.
func reportContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	ctx, cancel := reportContext()
	defer cancel()

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"jobKey": job.Key, "error": err})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"jobKey": job.Key, "error": err})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":              job.Key,
		"combinationId":       output.CombinationID,
		"totalScore":          output.TotalScore,
		"resultSubmitted":     output.ResultSubmitted,
		"duplicateSubmission": output.DuplicateSubmission,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	ctx, cancel := reportContext()
	defer cancel()

	stdErr := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, "failed")
	h.obs.RecordJobDuration(ctx, time.Since(start), "failed")

	h.errors.HandleJobError(ctx, client, job, stdErr)
}
