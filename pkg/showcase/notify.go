package showcase

import (
	"github.com/sirupsen/logrus"
)

// Operation names used in notifications.
const (
	OpLoad     = "load"
	OpFavorite = "favorite"
	OpDownload = "download"
	OpGrab     = "grab"
	OpPreview  = "preview"
)

// Notification is a transient, user-facing message about an operation.
type Notification struct {
	Level   logrus.Level
	Op      string
	ItemID  string
	Message string
	Err     error
}

// Notifier receives transient notifications. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logrus entry.
type LogNotifier struct {
	log *logrus.Entry
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(n Notification) {
	entry := l.log.WithField("op", n.Op)
	if n.ItemID != "" {
		entry = entry.WithField("item_id", n.ItemID)
	}
	if n.Err != nil {
		entry = entry.WithError(n.Err)
	}
	entry.Log(n.Level, n.Message)
}
