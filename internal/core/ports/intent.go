package ports

import (
	"context"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
)

// IntentDetector sends one query to an intent-recognition service and returns
// the service's structured reply as an opaque mapping.
type IntentDetector interface {
	DetectIntent(ctx context.Context, q domain.Query) (map[string]any, error)
}
