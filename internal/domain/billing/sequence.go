package billing

import (
	"context"
	"time"
)

// SequenceCounter backs human-readable document numbers: one row per
// series, monotonically non-decreasing, never rolled back on delete.
type SequenceCounter struct {
	Series    DocumentSeries
	LastValue int64
	UpdatedAt time.Time
}

// SequenceRepository allocates counter values for document series.
// Implementations must make Next atomic: two concurrent calls for the
// same series never observe the same value. When the context carries an
// ambient transaction the increment joins it, so an aborted document
// insert releases its reserved value as a gap rather than a duplicate.
type SequenceRepository interface {
	// Next increments the counter for the series and returns the new value
	Next(ctx context.Context, series DocumentSeries) (int64, error)

	// Current returns the last allocated value without incrementing
	Current(ctx context.Context, series DocumentSeries) (int64, error)
}

// SequenceGenerator formats allocated counter values as document numbers
type SequenceGenerator struct {
	counters SequenceRepository
}

// NewSequenceGenerator creates a new sequence generator
func NewSequenceGenerator(counters SequenceRepository) *SequenceGenerator {
	return &SequenceGenerator{counters: counters}
}

// Next allocates the next number in the series, returning both the
// formatted number and the raw counter value
func (g *SequenceGenerator) Next(ctx context.Context, series DocumentSeries) (string, int64, error) {
	value, err := g.counters.Next(ctx, series)
	if err != nil {
		return "", 0, err
	}
	return series.FormatNumber(value), value, nil
}
