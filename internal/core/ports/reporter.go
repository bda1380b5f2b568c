package ports

import "go.trai.ch/gild/internal/core/domain"

// Reporter is the outbound reporting channel for build results.
// Log writes a line to the console; Notify raises a desktop notification.
// Both are best-effort and never fail the caller.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	Log(level domain.ReportLevel, msg string)
	Notify(n domain.Notification)
}

// Notifier dispatches a desktop notification.
type Notifier interface {
	Notify(n domain.Notification) error
}
