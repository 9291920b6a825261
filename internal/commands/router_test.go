package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"kinobot/internal/subscribers"
)

func mustTable(t *testing.T, extra Aliases) AliasTable {
	t.Helper()
	table, err := NewAliasTable(extra)
	if err != nil {
		t.Fatalf("NewAliasTable: %v", err)
	}
	return table
}

func newTestRouter(t *testing.T) (*Router, *subscribers.Memory) {
	t.Helper()
	store := subscribers.NewMemory()
	return NewRouter(store, mustTable(t, Aliases{})), store
}

func handle(t *testing.T, r *Router, ev Event) Outcome {
	t.Helper()
	out, err := r.Handle(context.Background(), ev)
	if err != nil {
		t.Fatalf("Handle(%+v): %v", ev, err)
	}
	return out
}

func TestSubscribeNewUser(t *testing.T) {
	r, store := newTestRouter(t)

	out := handle(t, r, Event{ChatID: 42, Text: "/start", HasText: true, DisplayName: "Ana"})
	if !out.Recognized || out.Ignored {
		t.Fatalf("outcome = %+v, want recognized and not ignored", out)
	}
	if out.Intent != IntentSubscribe {
		t.Fatalf("Intent = %q, want %q", out.Intent, IntentSubscribe)
	}
	if out.Format != PlainText {
		t.Fatalf("Format = %q, want %q", out.Format, PlainText)
	}
	if !strings.Contains(out.Reply, "Ana") {
		t.Fatalf("welcome reply does not mention the sender: %q", out.Reply)
	}
	if ok, _ := store.Contains(context.Background(), 42); !ok {
		t.Fatal("Contains(42) = false after /start")
	}
}

func TestSubscribeTwice(t *testing.T) {
	r, store := newTestRouter(t)
	ev := Event{ChatID: 42, Text: "/start", HasText: true, DisplayName: "Ana"}

	handle(t, r, ev)
	out := handle(t, r, ev)
	if !strings.Contains(out.Reply, "already subscribed") {
		t.Fatalf("second /start reply = %q, want already-subscribed text", out.Reply)
	}
	if count, _ := store.Count(context.Background()); count != 1 {
		t.Fatalf("Count = %d after double subscribe, want 1", count)
	}
}

func TestStatusActive(t *testing.T) {
	r, _ := newTestRouter(t)
	handle(t, r, Event{ChatID: 42, Text: "/start", HasText: true, DisplayName: "Ana"})

	out := handle(t, r, Event{ChatID: 42, Text: "/status", HasText: true, DisplayName: "Ana"})
	if out.Format != RichText {
		t.Fatalf("Format = %q, want %q", out.Format, RichText)
	}
	if !strings.Contains(out.Reply, "Subscription Active") {
		t.Fatalf("reply = %q, want active marker", out.Reply)
	}
	if !strings.Contains(out.Reply, "Total subscribers: 1") {
		t.Fatalf("reply = %q, want total count 1", out.Reply)
	}
}

func TestStatusInactive(t *testing.T) {
	r, _ := newTestRouter(t)

	out := handle(t, r, Event{ChatID: 42, Text: "/status", HasText: true})
	if out.Format != RichText {
		t.Fatalf("Format = %q, want %q", out.Format, RichText)
	}
	if !strings.Contains(out.Reply, "Not Subscribed") {
		t.Fatalf("reply = %q, want inactive marker", out.Reply)
	}
	if strings.Contains(out.Reply, "Total subscribers") {
		t.Fatalf("inactive status leaks the subscriber count: %q", out.Reply)
	}
}

func TestUnsubscribe(t *testing.T) {
	r, store := newTestRouter(t)
	handle(t, r, Event{ChatID: 42, Text: "/start", HasText: true, DisplayName: "Ana"})

	out := handle(t, r, Event{ChatID: 42, Text: "/stop", HasText: true, DisplayName: "Ana"})
	if !strings.Contains(out.Reply, "unsubscribed") {
		t.Fatalf("reply = %q, want unsubscribe confirmation", out.Reply)
	}
	if ok, _ := store.Contains(context.Background(), 42); ok {
		t.Fatal("Contains(42) = true after /stop")
	}

	out = handle(t, r, Event{ChatID: 42, Text: "/stop", HasText: true, DisplayName: "Ana"})
	if !strings.Contains(out.Reply, "not currently subscribed") {
		t.Fatalf("second /stop reply = %q, want not-subscribed text", out.Reply)
	}
}

func TestUnrecognizedText(t *testing.T) {
	r, store := newTestRouter(t)

	out := handle(t, r, Event{ChatID: 7, Text: "banana", HasText: true, DisplayName: "X"})
	if out.Recognized || out.Ignored {
		t.Fatalf("outcome = %+v, want unrecognized reply", out)
	}
	for _, cmd := range []string{"/start", "/stop", "/status"} {
		if !strings.Contains(out.Reply, cmd) {
			t.Fatalf("reply %q does not list %s", out.Reply, cmd)
		}
	}
	if count, _ := store.Count(context.Background()); count != 0 {
		t.Fatalf("Count = %d after unrecognized text, want 0", count)
	}
}

func TestWhitespaceOnlyTextIsUnrecognized(t *testing.T) {
	r, _ := newTestRouter(t)

	out := handle(t, r, Event{ChatID: 7, Text: "   \t ", HasText: true})
	if out.Ignored {
		t.Fatal("whitespace-only text was ignored, want unrecognized reply")
	}
	if out.Recognized || out.Reply == "" {
		t.Fatalf("outcome = %+v, want unrecognized reply", out)
	}
}

func TestNoTextIsIgnored(t *testing.T) {
	r, store := newTestRouter(t)

	out := handle(t, r, Event{ChatID: 7, HasText: false})
	if !out.Ignored {
		t.Fatalf("outcome = %+v, want ignored", out)
	}
	if out.Reply != "" {
		t.Fatalf("ignored outcome carries a reply: %q", out.Reply)
	}
	if count, _ := store.Count(context.Background()); count != 0 {
		t.Fatalf("Count = %d after ignored event, want 0", count)
	}
}

func TestMatchingIsExact(t *testing.T) {
	r, store := newTestRouter(t)

	for _, text := range []string{"/start now", "/START", "/start!", "start"} {
		out := handle(t, r, Event{ChatID: 42, Text: text, HasText: true})
		if out.Recognized {
			t.Fatalf("text %q was recognized, want unrecognized", text)
		}
	}
	if count, _ := store.Count(context.Background()); count != 0 {
		t.Fatalf("Count = %d, want 0", count)
	}

	// Surrounding whitespace is trimmed before matching.
	out := handle(t, r, Event{ChatID: 42, Text: "  /start \n", HasText: true, DisplayName: "Ana"})
	if !out.Recognized || out.Intent != IntentSubscribe {
		t.Fatalf("outcome = %+v, want subscribe", out)
	}
}

func TestButtonLabelAliases(t *testing.T) {
	store := subscribers.NewMemory()
	table := mustTable(t, Aliases{
		Subscribe:   []string{"🔔 Subscribe"},
		Unsubscribe: []string{"🔕 Unsubscribe"},
		Status:      []string{"Status"},
	})
	r := NewRouter(store, table)

	out := handle(t, r, Event{ChatID: 1, Text: "🔔 Subscribe", HasText: true, DisplayName: "Ana"})
	if out.Intent != IntentSubscribe {
		t.Fatalf("Intent = %q, want subscribe", out.Intent)
	}
	out = handle(t, r, Event{ChatID: 1, Text: "Status", HasText: true})
	if out.Intent != IntentStatus {
		t.Fatalf("Intent = %q, want status", out.Intent)
	}
	// Case still matters for aliases.
	out = handle(t, r, Event{ChatID: 1, Text: "status", HasText: true})
	if out.Recognized {
		t.Fatal("lowercased alias was recognized, want unrecognized")
	}
	out = handle(t, r, Event{ChatID: 1, Text: "🔕 Unsubscribe", HasText: true})
	if out.Intent != IntentUnsubscribe {
		t.Fatalf("Intent = %q, want unsubscribe", out.Intent)
	}
}

func TestEmptyDisplayNameUsesPlaceholder(t *testing.T) {
	r, _ := newTestRouter(t)

	out := handle(t, r, Event{ChatID: 42, Text: "/start", HasText: true, DisplayName: "  "})
	if !strings.Contains(out.Reply, "there") {
		t.Fatalf("reply = %q, want the %q placeholder", out.Reply, fallbackName)
	}
}

// persistFailStore mutates in memory but reports every write as unpersisted.
type persistFailStore struct {
	*subscribers.Memory
}

func (s *persistFailStore) Add(ctx context.Context, id int64) (bool, error) {
	added, _ := s.Memory.Add(ctx, id)
	return added, fmt.Errorf("%w: disk full", subscribers.ErrPersist)
}

func (s *persistFailStore) Remove(ctx context.Context, id int64) (bool, error) {
	removed, _ := s.Memory.Remove(ctx, id)
	return removed, fmt.Errorf("%w: disk full", subscribers.ErrPersist)
}

func TestPersistFailureStillReplies(t *testing.T) {
	store := &persistFailStore{Memory: subscribers.NewMemory()}
	r := NewRouter(store, mustTable(t, Aliases{}))

	out, err := r.Handle(context.Background(), Event{ChatID: 42, Text: "/start", HasText: true, DisplayName: "Ana"})
	if err != nil {
		t.Fatalf("Handle: %v, want persist failure swallowed", err)
	}
	if !out.Recognized || !strings.Contains(out.Reply, "Ana") {
		t.Fatalf("outcome = %+v, want welcome reply", out)
	}
	if ok, _ := store.Contains(context.Background(), 42); !ok {
		t.Fatal("mutation did not stand after persist failure")
	}
}

// brokenStore refuses every operation, like an unreachable database.
type brokenStore struct{}

var errStoreDown = errors.New("connection refused")

func (brokenStore) Add(context.Context, int64) (bool, error)      { return false, errStoreDown }
func (brokenStore) Remove(context.Context, int64) (bool, error)   { return false, errStoreDown }
func (brokenStore) Contains(context.Context, int64) (bool, error) { return false, errStoreDown }
func (brokenStore) Count(context.Context) (int, error)            { return 0, errStoreDown }
func (brokenStore) All(context.Context) ([]int64, error)          { return nil, errStoreDown }

func TestStoreFailureAbortsEvent(t *testing.T) {
	r := NewRouter(brokenStore{}, mustTable(t, Aliases{}))

	for _, text := range []string{"/start", "/stop", "/status"} {
		out, err := r.Handle(context.Background(), Event{ChatID: 42, Text: text, HasText: true})
		if !errors.Is(err, errStoreDown) {
			t.Fatalf("Handle(%s) err = %v, want store error", text, err)
		}
		if out.Reply != "" {
			t.Fatalf("Handle(%s) produced a reply despite store failure: %q", text, out.Reply)
		}
	}
}

func TestAliasTableCanonicalsAlwaysPresent(t *testing.T) {
	table := mustTable(t, Aliases{})

	want := map[string]Intent{
		"/start":  IntentSubscribe,
		"/stop":   IntentUnsubscribe,
		"/status": IntentStatus,
	}
	for text, intent := range want {
		got, ok := table.Lookup(text)
		if !ok || got != intent {
			t.Fatalf("Lookup(%q) = (%q, %v), want (%q, true)", text, got, ok, intent)
		}
	}
}

func TestAliasTableRejectsCrossIntentDuplicates(t *testing.T) {
	_, err := NewAliasTable(Aliases{
		Subscribe:   []string{"Notify me"},
		Unsubscribe: []string{"Notify me"},
	})
	if err == nil {
		t.Fatal("conflicting alias accepted, want error")
	}

	// Claiming a canonical command for another intent is also a conflict.
	_, err = NewAliasTable(Aliases{Unsubscribe: []string{"/start"}})
	if err == nil {
		t.Fatal("canonical command reassigned, want error")
	}

	// Repeating an alias within the same intent is harmless.
	if _, err := NewAliasTable(Aliases{Status: []string{"Status", "Status"}}); err != nil {
		t.Fatalf("same-intent duplicate rejected: %v", err)
	}
}
