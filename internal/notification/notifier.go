// Package notification delivers push notifications. Delivery is a side
// effect of match detection and is never allowed to fail the flow that
// triggered it.
package notification

import "context"

// Notifier delivers a single push notification to a user's devices.
type Notifier interface {
	Push(ctx context.Context, userID, title, body, kind string, payload map[string]any) error
}
