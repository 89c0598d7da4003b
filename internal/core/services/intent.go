package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
	"github.com/ewilliams-labs/pennywise/internal/core/ports"
	"github.com/ewilliams-labs/pennywise/internal/metrics"
)

var tracer = otel.Tracer("github.com/ewilliams-labs/pennywise/internal/core/services")

// IntentService forwards utterances to an intent detector and turns remote
// failures into failure results instead of errors.
type IntentService struct {
	detector ports.IntentDetector
	provider string
	logger   *zap.Logger
}

// NewIntentService constructs an IntentService. provider labels metrics and
// spans (for example "dialogflow").
func NewIntentService(detector ports.IntentDetector, provider string, logger *zap.Logger) *IntentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentService{
		detector: detector,
		provider: provider,
		logger:   logger,
	}
}

// DetectIntent validates the inputs, sends exactly one request to the
// detector and returns its reply.
//
// The only error returned is an invalid-argument error for a blank project id
// or text, raised before the detector is called. Any failure of the remote
// call is reported through the returned IntentResult.
func (s *IntentService) DetectIntent(ctx context.Context, projectID, sessionID, text, languageCode string) (domain.IntentResult, error) {
	q, err := domain.NewQuery(projectID, sessionID, text, languageCode)
	if err != nil {
		return domain.IntentResult{}, err
	}

	ctx, span := tracer.Start(ctx, "IntentService.DetectIntent", trace.WithAttributes(
		attribute.String("intent.provider", s.provider),
		attribute.String("intent.session", q.SessionPath()),
		attribute.String("intent.language_code", q.LanguageCode),
	))
	defer span.End()

	start := time.Now()
	payload, err := s.detector.DetectIntent(ctx, q)
	metrics.IntentDetectionDuration.WithLabelValues(s.provider).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.IntentDetections.WithLabelValues(s.provider, metrics.OutcomeFailure).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.FailureMessage)
		s.logger.Error("failed to detect intent",
			zap.String("provider", s.provider),
			zap.String("session_id", q.SessionID),
			zap.Error(err),
		)
		return domain.IntentFailed(err), nil
	}

	metrics.IntentDetections.WithLabelValues(s.provider, metrics.OutcomeSuccess).Inc()
	result := domain.IntentSucceeded(payload)
	s.logger.Info("intent detected",
		zap.String("provider", s.provider),
		zap.String("session_id", q.SessionID),
		zap.Any("result", result.AsMap()),
	)
	return result, nil
}
