package notify

import (
	"errors"

	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
)

var _ ports.Reporter = (*Reporter)(nil)

// Reporter writes build reports to the logger and, in interactive sessions,
// raises desktop notifications.
type Reporter struct {
	logger   ports.Logger
	notifier ports.Notifier
	desktop  bool
}

// NewReporter creates a Reporter. With desktop false every notification is
// logged instead of shown.
func NewReporter(logger ports.Logger, notifier ports.Notifier, desktop bool) *Reporter {
	return &Reporter{logger: logger, notifier: notifier, desktop: desktop}
}

// Log writes msg at the given level.
func (r *Reporter) Log(level domain.ReportLevel, msg string) {
	switch level {
	case domain.LevelError:
		r.logger.Error(errors.New(msg))
	case domain.LevelWarn:
		r.logger.Warn(msg)
	default:
		r.logger.Info(msg)
	}
}

// Notify dispatches n without waiting for or reporting delivery beyond a warning.
func (r *Reporter) Notify(n domain.Notification) {
	if !r.desktop || r.notifier == nil {
		r.logger.Info("notification: " + n.Title)
		return
	}
	if err := r.notifier.Notify(n); err != nil {
		r.logger.Warn(err.Error())
	}
}
