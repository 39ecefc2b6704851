package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
)

// ConsoleNotifier prints notifications as they arrive. It is safe to call
// from the refresh watcher goroutine.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (n *ConsoleNotifier) Notify(_ context.Context, note controller.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch note.Kind {
	case controller.KindError:
		fmt.Fprintf(n.w, "\n[!] %s\n    %s\n", note.Title, note.Message)
	case controller.KindSuccess:
		fmt.Fprintf(n.w, "[ok] %s %s\n", note.Title, note.Message)
	default:
		fmt.Fprintf(n.w, "[i] %s: %s\n", note.Title, note.Message)
	}
}
