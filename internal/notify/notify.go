package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"recipe-importer/pkg/api"
)

const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notifier is the user-facing side channel. Every error and warning produced
// by an import is delivered through it.
type Notifier interface {
	Notify(notice api.Notice)
}

func NewNotice(level, recipe, message string) api.Notice {
	return api.Notice{Level: level, Recipe: recipe, Message: message, Time: time.Now().UTC()}
}

// ConsoleNotifier writes notices as lines to a writer, typically stderr.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) Notify(notice api.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prefix := notice.Level
	if notice.Recipe != "" {
		prefix += " [" + notice.Recipe + "]"
	}
	if _, err := fmt.Fprintf(n.out, "%s: %s\n", prefix, notice.Message); err != nil {
		slog.Error("error writing notice", "error", err)
	}
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(notice api.Notice) {
	for _, n := range m {
		n.Notify(notice)
	}
}
