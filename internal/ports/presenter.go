package ports

import (
	"context"

	"github.com/alejandrodnm/tradesim/internal/chart"
	"github.com/alejandrodnm/tradesim/internal/domain"
)

// Presenter consumes the output of one tick: the state snapshot and the
// fully regenerated frame. A frame replaces the previous one; presenters
// hold no drawing state between calls.
type Presenter interface {
	Present(ctx context.Context, snap domain.TickSnapshot, frame []chart.Primitive) error
}
