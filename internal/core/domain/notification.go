package domain

// NotificationTitle is the title of bundle error notifications.
const NotificationTitle = "Error running gild"

// NotificationSound is the sound requested for bundle error notifications.
const NotificationSound = "Frog"

// Notification is a fire-and-forget desktop notification.
type Notification struct {
	Title   string
	Message string
	Sound   string
	Icon    string
}

// ReportLevel is the severity of a logged report line.
type ReportLevel uint8

const (
	// LevelInfo is informational output, such as debug dumps.
	LevelInfo ReportLevel = iota
	// LevelWarn is a bundle warning.
	LevelWarn
	// LevelError is a bundle or setup error.
	LevelError
)
