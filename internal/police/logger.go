package police

import (
	"time"

	"go.uber.org/zap"
)

func logRequest(l *zap.Logger, stage Stage, method, url string) {
	l.Debug("request",
		zap.String("stage", string(stage)),
		zap.String("method", method),
		zap.String("url", url))
}

func logResponse(l *zap.Logger, stage Stage, statusCode int, duration time.Duration, resultCount int) {
	l.Info("response",
		zap.String("stage", string(stage)),
		zap.Int("status", statusCode),
		zap.Int64("duration_ms", duration.Milliseconds()),
		zap.Int("results", resultCount))
}

func logError(l *zap.Logger, stage Stage, operation string, err error) {
	l.Warn(operation+" failed",
		zap.String("stage", string(stage)),
		zap.Error(err))
}
