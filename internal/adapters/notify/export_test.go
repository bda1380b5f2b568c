package notify

// NewDesktopWith builds a Desktop with replaced beeep calls.
func NewDesktopWith(dir string, notify, alert func(title, message string, icon any) error) *Desktop {
	return &Desktop{IconDir: dir, notify: notify, alert: alert}
}
