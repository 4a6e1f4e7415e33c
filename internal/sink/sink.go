package sink

import (
	"go-jobhunt-crawler/internal/model"
)

// Sink receives completed records one at a time as detail pages finish.
// Append is fire-and-forget for the caller; ordering is not significant.
type Sink interface {
	Append(rec model.JobRecord) error
	Close() error
}

// Multi fans every record out to all configured sinks. Append returns the
// first error but still delivers to the remaining sinks.
type Multi []Sink

func (m Multi) Append(rec model.JobRecord) error {
	var first error
	for _, s := range m {
		if err := s.Append(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
