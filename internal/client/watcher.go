package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
)

// DefaultPollInterval matches the refresh cadence the web client used.
const DefaultPollInterval = 3 * time.Second

// PendingMessage is an optimistic local entry for a message whose
// authoritative copy has not been fetched yet. Keyed by a temporary id, never
// persisted.
type PendingMessage struct {
	TempID         string
	ConversationID uint
	Content        string
	SentAt         time.Time
}

// Watcher polls one open conversation for new messages. Opening a
// conversation cancels the previous poll loop first, so there is never more
// than one timer running. Background poll failures are dropped silently;
// only the foreground fetch in Open surfaces an error.
type Watcher struct {
	client   *Client
	interval time.Duration
	onUpdate func(convID uint, msgs []models.MessageView)

	mu      sync.Mutex
	convID  uint
	pending []PendingMessage
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewWatcher(c *Client, onUpdate func(convID uint, msgs []models.MessageView)) *Watcher {
	return &Watcher{
		client:   c,
		interval: DefaultPollInterval,
		onUpdate: onUpdate,
	}
}

// SetInterval overrides the poll cadence. Takes effect on the next Open.
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = d
}

// Open switches the watcher to the given conversation: stops any previous
// loop, fetches once in the foreground, then keeps refreshing on the poll
// interval until Close or the next Open.
func (w *Watcher) Open(ctx context.Context, convID uint) ([]models.MessageView, error) {
	w.Close()

	msgs, err := w.client.Messages(ctx, convID)
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	w.mu.Lock()
	w.convID = convID
	w.pending = nil
	w.cancel = cancel
	w.done = done
	interval := w.interval
	w.mu.Unlock()

	go w.loop(loopCtx, convID, interval, done)

	return msgs, nil
}

func (w *Watcher) loop(ctx context.Context, convID uint, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetchStart := time.Now()
			msgs, err := w.client.Messages(ctx, convID)
			if err != nil {
				// Transient poll failure; the next tick retries.
				continue
			}
			w.reconcile(convID, fetchStart)
			if w.onUpdate != nil {
				w.onUpdate(convID, msgs)
			}
		}
	}
}

// Close stops the poll loop and waits for it to exit.
func (w *Watcher) Close() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.convID = 0
	w.pending = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Send posts a message to the open conversation, tracking it as a pending
// entry until an authoritative fetch covers it. The send itself is never
// retried automatically.
func (w *Watcher) Send(ctx context.Context, content string) (*models.Message, error) {
	w.mu.Lock()
	convID := w.convID
	entry := PendingMessage{
		TempID:         uuid.NewString(),
		ConversationID: convID,
		Content:        content,
		SentAt:         time.Now(),
	}
	w.pending = append(w.pending, entry)
	w.mu.Unlock()

	msg, err := w.client.SendMessage(ctx, convID, content)
	if err != nil {
		w.dropPending(entry.TempID)
		return nil, err
	}
	return msg, nil
}

// Pending returns the optimistic entries not yet covered by a fetch.
func (w *Watcher) Pending() []PendingMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]PendingMessage, len(w.pending))
	copy(out, w.pending)
	return out
}

// reconcile drops pending entries that were sent before a successful fetch
// started: the fetch result is authoritative for them.
func (w *Watcher) reconcile(convID uint, fetchStart time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.convID != convID {
		return
	}
	kept := w.pending[:0]
	for _, p := range w.pending {
		if p.SentAt.After(fetchStart) {
			kept = append(kept, p)
		}
	}
	w.pending = kept
}

func (w *Watcher) dropPending(tempID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.pending[:0]
	for _, p := range w.pending {
		if p.TempID != tempID {
			kept = append(kept, p)
		}
	}
	w.pending = kept
}
