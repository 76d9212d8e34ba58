package mapcodec

import (
	"io"
	"log/slog"
)

// Option configures Encode or Decode. The zero options value matches the
// default behavior of either call.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger supplies a logger that Encode/Decode use for Debug-level
// tracing of the pipeline stages (on Encode: zone count, candidate line
// counts, encoded size; on Decode: line count and fill direction). The
// default discards all log output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
