package notifier

import (
	"errors"
	"testing"
)

func TestNotifyChangingOrder(t *testing.T) {
	t.Parallel()

	n := New()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		n.OnChanging(func(*ChangingEvent) error {
			order = append(order, i)
			return nil
		})
	}

	cancelled, err := n.NotifyChanging(&ChangingEvent{Key: "k"})
	if err != nil {
		t.Fatalf("NotifyChanging returned error: %v", err)
	}
	if cancelled {
		t.Fatal("expected no cancellation")
	}
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("handlers ran out of subscription order: %v", order)
	}
}

func TestNotifyChangingCancelRunsAllHandlers(t *testing.T) {
	t.Parallel()

	n := New()
	ran := make([]bool, 3)
	n.OnChanging(func(e *ChangingEvent) error {
		ran[0] = true
		e.Cancel = true
		return nil
	})
	n.OnChanging(func(*ChangingEvent) error {
		ran[1] = true
		return nil
	})
	n.OnChanging(func(e *ChangingEvent) error {
		ran[2] = true
		if !e.Cancel {
			t.Error("expected Cancel to be visible to later handlers")
		}
		return nil
	})

	cancelled, err := n.NotifyChanging(&ChangingEvent{Key: "k"})
	if err != nil {
		t.Fatalf("NotifyChanging returned error: %v", err)
	}
	if !cancelled {
		t.Fatal("expected cancellation")
	}
	for i, r := range ran {
		if !r {
			t.Fatalf("handler %d did not run after cancellation", i)
		}
	}
}

func TestNotifyChangingHandlerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	n := New()
	n.OnChanging(func(*ChangingEvent) error { return boom })
	ran := false
	n.OnChanging(func(*ChangingEvent) error {
		ran = true
		return nil
	})

	_, err := n.NotifyChanging(&ChangingEvent{Key: "k"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if ran {
		t.Fatal("expected dispatch to stop at the failing handler")
	}
}

func TestNotifyChanged(t *testing.T) {
	t.Parallel()

	n := New()
	var got []ChangedEvent
	n.OnChanged(func(e ChangedEvent) error {
		got = append(got, e)
		return nil
	})

	want := ChangedEvent{Key: "k", OldValue: nil, NewValue: "v"}
	if err := n.NotifyChanged(want); err != nil {
		t.Fatalf("NotifyChanged returned error: %v", err)
	}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	n := New()
	calls := 0
	sub := n.OnChanging(func(*ChangingEvent) error {
		calls++
		return nil
	})
	kept := 0
	n.OnChanging(func(*ChangingEvent) error {
		kept++
		return nil
	})

	n.Unsubscribe(sub)
	// Removing an unknown subscription is a no-op.
	n.Unsubscribe(Subscription{})

	if _, err := n.NotifyChanging(&ChangingEvent{Key: "k"}); err != nil {
		t.Fatalf("NotifyChanging returned error: %v", err)
	}
	if calls != 0 {
		t.Fatal("unsubscribed handler still ran")
	}
	if kept != 1 {
		t.Fatalf("remaining handler ran %d times", kept)
	}
}
