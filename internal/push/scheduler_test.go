package push

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/pantry/internal/database"
	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/store"
)

var now = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type fakeStock struct {
	items []model.InventoryItem
	err   error
}

func (f *fakeStock) Refresh(ctx context.Context) error      { return f.err }
func (f *fakeStock) Items() ([]model.InventoryItem, error) { return f.items, nil }

type fakeSender struct {
	mu      sync.Mutex
	sent    []Payload
	expired map[string]bool
}

func (f *fakeSender) Send(sub *model.PushSubscription, p Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expired[sub.Endpoint] {
		return ErrExpired
	}
	f.sent = append(f.sent, p)
	return nil
}

func expiresIn(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

type fixture struct {
	sched    *Scheduler
	sender   *fakeSender
	stock    *fakeStock
	subs     *store.PushStore
	settings *store.SettingsStore
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		sender: &fakeSender{expired: map[string]bool{}},
		stock: &fakeStock{items: []model.InventoryItem{
			{ID: "milk", ExpiryDate: expiresIn(6 * time.Hour), Product: &model.Product{Name: "Milk"}},
			{ID: "eggs", ExpiryDate: expiresIn(-time.Hour)},
			{ID: "rice", ExpiryDate: expiresIn(30 * 24 * time.Hour)},
			{ID: "salt"},
			{ID: "tmp-123", ExpiryDate: expiresIn(-time.Hour)},
		}},
		subs:     store.NewPushStore(db),
		settings: store.NewSettingsStore(db),
	}
	f.sched = NewScheduler(f.sender, f.stock, f.subs, f.settings, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.sched.now = func() time.Time { return now }
	return f
}

func (f *fixture) subscribe(t *testing.T, endpoint string) {
	t.Helper()
	if _, err := f.subs.CreateSubscription(endpoint, "p256", "auth", "phone"); err != nil {
		t.Fatal(err)
	}
}

func TestRunOnceSendsLowAndExpired(t *testing.T) {
	f := setup(t)
	f.subscribe(t, "https://push.example/a")

	n, err := f.sched.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 2 {
		t.Fatalf("sent = %d, want 2", n)
	}
	bodies := map[string]bool{}
	for _, p := range f.sender.sent {
		bodies[p.Body] = true
	}
	if !bodies["Milk expires within a day"] || !bodies["An item has expired"] {
		t.Errorf("bodies = %v", bodies)
	}
}

func TestRunOnceOncePerDay(t *testing.T) {
	f := setup(t)
	f.subscribe(t, "https://push.example/a")

	if _, err := f.sched.RunOnce(context.Background()); err != nil {
		t.Fatal(err)
	}
	n, err := f.sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second run sent %d, want 0", n)
	}

	f.sched.now = func() time.Time { return now.Add(24 * time.Hour) }
	n, err = f.sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Both items are expired by tomorrow.
	if n != 2 {
		t.Errorf("next day sent %d, want 2", n)
	}
}

func TestRunOnceDisabled(t *testing.T) {
	f := setup(t)
	f.subscribe(t, "https://push.example/a")
	if err := f.settings.Set(store.SettingExpiryReminders, "false"); err != nil {
		t.Fatal(err)
	}

	n, err := f.sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("sent = %d with reminders disabled", n)
	}
}

func TestRunOnceRemovesExpiredSubscription(t *testing.T) {
	f := setup(t)
	f.subscribe(t, "https://push.example/a")
	f.subscribe(t, "https://push.example/gone")
	f.sender.expired["https://push.example/gone"] = true

	n, err := f.sched.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("sent = %d, want 2", n)
	}
	subs, err := f.subs.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].Endpoint != "https://push.example/a" {
		t.Errorf("subscriptions = %+v", subs)
	}
}

func TestRunOnceRefreshError(t *testing.T) {
	f := setup(t)
	f.subscribe(t, "https://push.example/a")
	f.stock.err = errors.New("offline")

	if _, err := f.sched.RunOnce(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
}

func TestStartStop(t *testing.T) {
	f := setup(t)
	f.sched.Start(context.Background())
	f.sched.Stop()
}
