package notification

import (
	"context"
	"sync"
)

// Delivered is one notification captured by MemoryNotifier.
type Delivered struct {
	UserID  string
	Title   string
	Body    string
	Kind    string
	Payload map[string]any
}

// MemoryNotifier is an in-memory Notifier used by tests.
type MemoryNotifier struct {
	mu        sync.Mutex
	delivered []Delivered

	// Err, when set, is returned from every Push.
	Err error
}

// NewMemoryNotifier creates a new in-memory notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

// Push captures the notification.
func (n *MemoryNotifier) Push(_ context.Context, userID, title, body, kind string, payload map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	n.delivered = append(n.delivered, Delivered{
		UserID:  userID,
		Title:   title,
		Body:    body,
		Kind:    kind,
		Payload: payload,
	})
	return nil
}

// Delivered returns a copy of the captured notifications.
func (n *MemoryNotifier) Delivered() []Delivered {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Delivered, len(n.delivered))
	copy(out, n.delivered)
	return out
}

// Ensure MemoryNotifier implements Notifier.
var _ Notifier = (*MemoryNotifier)(nil)
