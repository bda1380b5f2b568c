package ports

// ReloadNotifier tells connected browsers that assets changed.
// It is fire-and-forget: no acknowledgement, no retry.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type ReloadNotifier interface {
	// Reload announces changed paths. CSS paths are swapped in place by the
	// client; anything else, or no path at all, triggers a full page reload.
	Reload(paths ...string)
}
