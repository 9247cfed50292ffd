package requestid

import (
	"context"
	"log/slog"

	"github.com/kushi-labs/kushi/pkg/logger"
)

// LogExtractor adds the request ID of the context to every log record.
func LogExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return logger.RequestID(id), true
		}
		return slog.Attr{}, false
	}
}
