package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// dispatchTimeout bounds a single detached delivery attempt.
const dispatchTimeout = 15 * time.Second

// Dispatcher sends notifications fire-and-forget. Each dispatch runs in its
// own goroutine with a fresh context so delivery outlives the request that
// triggered it; failures go to the dispatcher's log sink and nowhere else.
type Dispatcher struct {
	notifier Notifier
	logger   zerolog.Logger
	metrics  *Metrics
	wg       sync.WaitGroup
}

// NewDispatcher creates a new fire-and-forget dispatcher.
func NewDispatcher(notifier Notifier, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger}
}

// WithMetrics attaches delivery metrics to the dispatcher.
func (d *Dispatcher) WithMetrics(m *Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// Dispatch sends a notification without blocking the caller.
func (d *Dispatcher) Dispatch(userID, title, body, kind string, payload map[string]any) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		start := time.Now()
		err := d.notifier.Push(ctx, userID, title, body, kind, payload)
		if d.metrics != nil {
			d.metrics.RecordDelivery(kind, time.Since(start), err)
		}
		if err != nil {
			d.logger.Error().
				Err(err).
				Str("user_id", userID).
				Str("kind", kind).
				Msg("push notification delivery failed")
		}
	}()
}

// Flush blocks until all in-flight dispatches have completed. Used during
// shutdown and by tests.
func (d *Dispatcher) Flush() {
	d.wg.Wait()
}
