package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/pkg/model"
)

// LogSink records submissions as structured log entries.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink that logs to logger at info level.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("submission")}
}

// Submit logs data.
func (s *LogSink) Submit(ctx context.Context, data model.FormData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("form submitted",
		zap.String("name", data.Name),
		zap.String("email", data.Email),
		zap.String("phone", data.Phone),
		zap.String("rating", data.Rating),
		zap.Int("feedback_chars", data.FeedbackCharCount()),
		zap.String("feedback", data.Feedback),
	)
	return nil
}
