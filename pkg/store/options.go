package store

import (
	"log/slog"
	"time"
)

// ImageIDMode selects how image ids are generated.
type ImageIDMode string

const (
	// ImageIDShort generates compact time+random ids, regenerated on collision.
	ImageIDShort ImageIDMode = "short"
	// ImageIDUUID generates random UUIDs.
	ImageIDUUID ImageIDMode = "uuid"
)

// options holds the configuration of a Store.
type options struct {
	logger       *slog.Logger
	errorHandler func(error)
	imageIDs     ImageIDMode
	now          func() time.Time
}

// Option configures a Store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		imageIDs: ImageIDShort,
		now:      time.Now,
	}
}

// WithLogger sets the logger receiving write diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithErrorHandler registers a callback invoked with every swallowed write error.
// It runs synchronously inside Save and must not call back into the Store.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithImageIDs selects the image id generator. Unknown modes fall back to short ids.
func WithImageIDs(mode ImageIDMode) Option {
	return func(o *options) {
		o.imageIDs = mode
	}
}

// WithClock overrides the time source used for id generation.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
