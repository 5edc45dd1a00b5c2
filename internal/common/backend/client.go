// internal/common/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"devicelife-worker/internal/common/config"
	apperrors "devicelife-worker/internal/common/errors"
	httpclient "devicelife-worker/internal/common/http"
	"devicelife-worker/internal/common/logger"
	"devicelife-worker/internal/common/validation"
	"devicelife-worker/internal/models"
)

const HeaderInternalToken = "X-Internal-Token"

// Client talks to the backend's internal evaluation API.
type Client struct {
	baseURL    string
	http       *httpclient.Client
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
	tracer     trace.Tracer
}

// NewClient builds a backend client. opts are applied after the defaults
// derived from cfg.
func NewClient(cfg config.BackendConfig, log logger.Logger, opts ...httpclient.Option) *Client {
	httpOpts := append([]httpclient.Option{
		httpclient.WithHeader(HeaderInternalToken, cfg.InternalToken),
		httpclient.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	}, opts...)

	return &Client{
		baseURL:    cfg.BaseURL,
		http:       httpclient.NewClient(cfg.RequestTimeout(), httpOpts...),
		maxRetries: cfg.MaxRetries,
		backoff:    config.GetDuration(cfg.RetryBackoff),
		logger:     log.WithFields(map[string]interface{}{"component": "backend-client"}),
		tracer:     otel.Tracer("devicelife-worker/backend"),
	}
}

// GetPayload fetches and decodes the evaluation payload of a combination.
// Legacy field names are mapped onto the current ones.
func (c *Client) GetPayload(ctx context.Context, combinationID int64) (*models.DevicePayload, error) {
	ctx, span := c.tracer.Start(ctx, "backend.GetPayload",
		trace.WithAttributes(attribute.Int64("combination.id", combinationID)))
	defer span.End()

	url := fmt.Sprintf("%s/internal/evaluations/%d/payload", c.baseURL, combinationID)

	var body []byte
	err := c.withRetry(ctx, "getPayload", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		if err := httpclient.CheckStatus(resp); err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, c.classify(err, combinationID, "getPayload")
	}

	payload, err := decodePayload(body, combinationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("devices.count", len(payload.Devices)))
	return payload, nil
}

// SubmitResult posts a finished evaluation.
func (c *Client) SubmitResult(ctx context.Context, result models.EvaluationResult) error {
	ctx, span := c.tracer.Start(ctx, "backend.SubmitResult",
		trace.WithAttributes(attribute.Int64("combination.id", result.CombinationID)))
	defer span.End()

	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("encode result: %w", err))
	}
	url := fmt.Sprintf("%s/internal/evaluations/%d/result", c.baseURL, result.CombinationID)

	err = c.withRetry(ctx, "submitResult", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		if err := httpclient.CheckStatus(resp); err != nil {
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Body.Close()
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		return c.classify(err, result.CombinationID, "submitResult")
	}
	return nil
}

// withRetry runs fn until it succeeds, fails permanently or the attempts run
// out. The wait doubles after every failed attempt.
func (c *Client) withRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	wait := c.backoff
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}
		c.logger.Warn("Backend call failed, retrying", map[string]interface{}{
			"operation": operation,
			"attempt":   attempt + 1,
			"error":     lastErr.Error(),
		})
	}
	return lastErr
}

func isTransient(err error) bool {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func (c *Client) classify(err error, combinationID int64, operation string) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewBackendTimeoutError(operation, err)
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound && operation == "getPayload" {
		return apperrors.NewPayloadNotFoundError(combinationID)
	}

	var stdErr *apperrors.StandardError
	if operation == "getPayload" {
		stdErr = apperrors.NewPayloadFetchFailedError(combinationID, err)
	} else {
		stdErr = apperrors.NewResultSubmitFailedError(combinationID, err)
	}
	if statusErr != nil && !statusErr.Retryable() {
		stdErr.Retryable = false
	}
	return stdErr.WithMetadata("combinationId", combinationID)
}

// wirePayload accepts both current and legacy field names.
type wirePayload struct {
	CombinationID     *int64       `json:"combinationId"`
	EvaluationID      *int64       `json:"evaluationId"`
	EvaluationVersion int64        `json:"evaluationVersion"`
	JobID             string       `json:"jobId"`
	Devices           []wireDevice `json:"devices"`
	Lifestyles        []*string    `json:"lifestyles"`
}

type wireDevice struct {
	DeviceID *int64       `json:"deviceId"`
	ID       *int64       `json:"id"`
	Type     string       `json:"type"`
	Specs    models.Specs `json:"specs"`
}

func decodePayload(body []byte, combinationID int64) (*models.DevicePayload, error) {
	var envelope models.APIResponse[json.RawMessage]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewPayloadSchemaInvalidError(fmt.Sprintf("decode envelope: %v", err))
	}
	if envelope.Result == nil || len(*envelope.Result) == 0 || string(*envelope.Result) == "null" {
		return nil, apperrors.NewPayloadNotFoundError(combinationID).
			WithMetadata("backendCode", envelope.Code)
	}
	return DecodePayload([]byte(*envelope.Result), combinationID)
}

// DecodePayload validates a bare payload document and maps legacy field names.
// requestedID is used when the document carries no identifier of its own.
func DecodePayload(raw []byte, requestedID int64) (*models.DevicePayload, error) {
	check, err := validation.ValidatePayload(raw)
	if err != nil {
		return nil, apperrors.NewPayloadSchemaInvalidError(err.Error())
	}
	if !check.Valid {
		return nil, apperrors.NewPayloadSchemaInvalidError(check.Summary())
	}

	var wire wirePayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, apperrors.NewPayloadSchemaInvalidError(fmt.Sprintf("decode payload: %v", err))
	}
	return wire.toModel(requestedID), nil
}

func (w wirePayload) toModel(requestedID int64) *models.DevicePayload {
	p := &models.DevicePayload{
		CombinationID:     requestedID,
		EvaluationVersion: w.EvaluationVersion,
		JobID:             w.JobID,
		Devices:           make([]models.Device, 0, len(w.Devices)),
		Lifestyles:        make([]string, 0, len(w.Lifestyles)),
	}
	switch {
	case w.CombinationID != nil:
		p.CombinationID = *w.CombinationID
	case w.EvaluationID != nil:
		p.CombinationID = *w.EvaluationID
	}

	for _, d := range w.Devices {
		device := models.Device{Type: d.Type, Specs: d.Specs}
		switch {
		case d.DeviceID != nil:
			device.DeviceID = *d.DeviceID
		case d.ID != nil:
			device.DeviceID = *d.ID
		}
		if device.Specs == nil {
			device.Specs = models.Specs{}
		}
		p.Devices = append(p.Devices, device)
	}

	for _, tag := range w.Lifestyles {
		if tag != nil {
			p.Lifestyles = append(p.Lifestyles, *tag)
		}
	}
	return p
}
