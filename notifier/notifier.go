package notifier

import (
	"github.com/google/uuid"
)

// Subscription identifies a registered handler for later removal.
type Subscription = uuid.UUID

// ChangingEvent describes a write that is about to happen. It is passed to
// pre-write handlers by pointer so any handler may set Cancel; the flag is
// inspected once after the full handler list has run.
type ChangingEvent struct {
	// Key is the store key being written.
	Key string

	// OldValue is the decoded current value, or nil when the key is absent.
	OldValue any

	// NewValue is the value about to be written.
	NewValue any

	// Cancel vetoes the write when set by any handler.
	Cancel bool
}

// ChangedEvent describes a write that has committed to the store.
type ChangedEvent struct {
	// Key is the store key that was written.
	Key string

	// OldValue is the decoded value before the write, or nil when absent.
	OldValue any

	// NewValue is the value that was written.
	NewValue any
}

// ChangingHandler observes a pending write. Returning an error aborts the
// enclosing operation before the store is touched.
type ChangingHandler func(*ChangingEvent) error

// ChangedHandler observes a committed write. Returning an error aborts the
// enclosing operation, but the store mutation has already happened.
type ChangedHandler func(ChangedEvent) error

type changingEntry struct {
	id uuid.UUID
	fn ChangingHandler
}

type changedEntry struct {
	id uuid.UUID
	fn ChangedHandler
}

// Notifier maintains the two ordered handler lists and performs synchronous
// multicast dispatch. It is not safe for concurrent use; the accessor model
// is a single logical caller per instance.
type Notifier struct {
	changing []changingEntry
	changed  []changedEntry
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{}
}

// OnChanging registers a pre-write handler. Handlers run in subscription order.
func (n *Notifier) OnChanging(fn ChangingHandler) Subscription {
	id := uuid.New()
	n.changing = append(n.changing, changingEntry{id: id, fn: fn})
	return id
}

// OnChanged registers a post-write handler. Handlers run in subscription order.
func (n *Notifier) OnChanged(fn ChangedHandler) Subscription {
	id := uuid.New()
	n.changed = append(n.changed, changedEntry{id: id, fn: fn})
	return id
}

// Unsubscribe removes the handler registered under s. Unknown subscriptions
// are ignored.
func (n *Notifier) Unsubscribe(s Subscription) {
	for i, e := range n.changing {
		if e.id == s {
			n.changing = append(n.changing[:i], n.changing[i+1:]...)
			return
		}
	}
	for i, e := range n.changed {
		if e.id == s {
			n.changed = append(n.changed[:i], n.changed[i+1:]...)
			return
		}
	}
}

// NotifyChanging dispatches event to every pre-write handler in subscription
// order. Cancellation does not short-circuit dispatch: all handlers run, and
// the Cancel flag is inspected once afterwards. A handler error aborts
// dispatch immediately and propagates.
func (n *Notifier) NotifyChanging(event *ChangingEvent) (cancelled bool, err error) {
	for _, e := range n.changing {
		if err := e.fn(event); err != nil {
			return false, err
		}
	}
	return event.Cancel, nil
}

// NotifyChanged dispatches event to every post-write handler in subscription
// order. A handler error aborts dispatch and propagates to the caller even
// though the write has already committed.
func (n *Notifier) NotifyChanged(event ChangedEvent) error {
	for _, e := range n.changed {
		if err := e.fn(event); err != nil {
			return err
		}
	}
	return nil
}
