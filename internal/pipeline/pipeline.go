// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	apperrors "email-ledger/internal/common/errors"
	"email-ledger/internal/common/logger"
	"email-ledger/internal/common/metrics"
	"email-ledger/internal/common/retry"
	"email-ledger/internal/models"
)

// Extractor converts unstructured email text into a structured record.
type Extractor interface {
	Extract(ctx context.Context, emailBody string) (models.ExtractedRecord, error)
}

// Ledger opens append handles against the external sale ledger.
type Ledger interface {
	Connect(ctx context.Context) (LedgerHandle, error)
}

// LedgerHandle is an established, append-only ledger connection.
type LedgerHandle interface {
	Append(ctx context.Context, row models.LedgerRow) error
}

type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	AttemptTimeout time.Duration
}

// Pipeline sequences extract -> connect -> append, each stage under its own
// bounded retry. One pass per request; no state is shared across requests.
type Pipeline struct {
	config    *Config
	extractor Extractor
	ledger    Ledger
	logger    logger.Logger

	// now is set via WithClock so tests get deterministic row timestamps.
	now func() time.Time
}

// Option customizes a Pipeline at construction time.
type Option func(*Pipeline)

// WithClock overrides the timestamp source used for appended rows.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func New(config *Config, ext Extractor, led Ledger, log logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		config:    config,
		extractor: ext,
		ledger:    led,
		logger: log.With(map[string]interface{}{
			"component": "pipeline",
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) retryConfig() retry.Config {
	return retry.Config{
		MaxAttempts:    p.config.MaxAttempts,
		InitialBackoff: p.config.InitialBackoff,
		AttemptTimeout: p.config.AttemptTimeout,
	}
}

// Process runs one pipeline pass over the email and maps every outcome to a
// tagged result. A failed stage never re-attempts an earlier stage, and a
// successful extraction is surfaced to the caller even when persistence
// later fails.
func (p *Pipeline) Process(ctx context.Context, email models.EmailPayload) *Result {
	started := time.Now()
	result := p.process(ctx, email)

	metrics.EmailsProcessed.WithLabelValues(string(result.EmailType)).Inc()
	metrics.PipelineDuration.WithLabelValues(string(result.EmailType)).Observe(time.Since(started).Seconds())

	return result
}

func (p *Pipeline) process(ctx context.Context, email models.EmailPayload) *Result {
	body := email.Content()
	if body == "" {
		// No external calls and no retries for an empty body.
		return failureResult(KindNoContent, "No email body content found")
	}

	log := p.logger.With(map[string]interface{}{
		"from":    email.From,
		"subject": email.Subject,
	})
	log.Info("processing email", map[string]interface{}{
		"bodyBytes": len(body),
	})

	// --- Stage 1: extract ---
	var record models.ExtractedRecord
	err := retry.Do(ctx, p.retryConfig(), log, "extract", func(ctx context.Context) error {
		var extractErr error
		record, extractErr = p.extractor.Extract(ctx, body)
		if extractErr != nil {
			return extractErr
		}
		// An incomplete record counts as an attempt failure, not a partial
		// success.
		if !record.Complete() {
			return apperrors.NewExtractionInvalidPayloadError("extracted record missing required fields")
		}
		return nil
	})
	if err != nil {
		return failureResult(KindExtractionFailed,
			fmt.Sprintf("LLM extraction failed after %d attempts: %v", p.config.MaxAttempts, err))
	}

	// --- Stage 2: connect (extraction is never re-attempted from here on) ---
	var handle LedgerHandle
	err = retry.Do(ctx, p.retryConfig(), log, "connect", func(ctx context.Context) error {
		var connectErr error
		handle, connectErr = p.ledger.Connect(ctx)
		return connectErr
	})
	if err != nil {
		return failureWithRecord(KindLedgerUnavailable, record,
			fmt.Sprintf("Ledger connection failed after %d attempts: %v", p.config.MaxAttempts, err))
	}

	// --- Stage 3: normalize and append ---
	normalized := record.Normalized()
	row := models.NewLedgerRow(normalized, p.now())

	err = retry.Do(ctx, p.retryConfig(), log, "append", func(ctx context.Context) error {
		return handle.Append(ctx, row)
	})
	if err != nil {
		return failureWithRecord(KindAppendFailed, normalized,
			fmt.Sprintf("Failed to append to ledger after %d attempts: %v", p.config.MaxAttempts, err))
	}

	log.Info("sale recorded", map[string]interface{}{
		"itemName":  normalized.ItemName,
		"payout":    normalized.PayoutAmount,
		"timestamp": row.Timestamp,
	})

	return successResult(normalized, row.Timestamp)
}
