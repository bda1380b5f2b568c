package notify

import (
	_ "embed"
	"os"
	"path/filepath"
	"sync"

	"github.com/gen2brain/beeep"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
)

//go:embed assets/error.png
var errorIcon []byte

var _ ports.Notifier = (*Desktop)(nil)

// Desktop raises OS notifications through beeep.
type Desktop struct {
	// IconDir is where the bundled icon is materialized. Empty means os.TempDir().
	IconDir string

	iconOnce sync.Once
	iconPath string

	// notify and alert are swapped in tests.
	notify func(title, message string, icon any) error
	alert  func(title, message string, icon any) error
}

// NewDesktop creates a Desktop notifier.
func NewDesktop() *Desktop {
	return &Desktop{notify: beeep.Notify, alert: beeep.Alert}
}

// Notify shows n. A sound request turns the notification into an alert.
// Without an icon the bundled error icon is used.
func (d *Desktop) Notify(n domain.Notification) error {
	icon := n.Icon
	if icon == "" {
		icon = d.defaultIcon()
	}

	send := d.notify
	if n.Sound != "" {
		send = d.alert
	}
	if err := send(n.Title, n.Message, icon); err != nil {
		return domain.Wrap(err, domain.ErrNotifyFailed)
	}
	return nil
}

// defaultIcon writes the embedded icon to disk once. Failures fall back to no icon.
func (d *Desktop) defaultIcon() string {
	d.iconOnce.Do(func() {
		dir := d.IconDir
		if dir == "" {
			dir = os.TempDir()
		}
		p := filepath.Join(dir, "gild-error.png")
		if err := os.WriteFile(p, errorIcon, domain.FilePerm); err == nil {
			d.iconPath = p
		}
	})
	return d.iconPath
}
