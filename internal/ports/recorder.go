package ports

import (
	"context"

	"github.com/alejandrodnm/tradesim/internal/domain"
)

// Recorder persists the candle stream of the current session for offline
// analysis. Trades are deliberately not recorded.
type Recorder interface {
	// RecordCandle stores the seq-th candle of the session.
	RecordCandle(ctx context.Context, seq int, c domain.Candle) error

	// Close releases the underlying store cleanly.
	Close() error
}
