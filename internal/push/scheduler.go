package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/pantry/internal/freshness"
	"github.com/dukerupert/pantry/internal/model"
)

// How long reminder_log rows are kept.
const reminderRetention = 7 * 24 * time.Hour

type Sender interface {
	Send(sub *model.PushSubscription, payload Payload) error
}

// Stock is the inventory the scheduler watches. *state.Inventory implements it.
type Stock interface {
	Refresh(ctx context.Context) error
	Items() ([]model.InventoryItem, error)
}

type Subscriptions interface {
	List() ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
	MarkReminded(itemID, notifType string, day time.Time) (bool, error)
	PruneReminders(cutoff time.Time) (int64, error)
}

type Settings interface {
	RemindersEnabled() (bool, error)
}

// Scheduler periodically reminds subscribed devices about stock that is
// about to expire or already has.
type Scheduler struct {
	mu       sync.RWMutex
	sender   Sender
	stock    Stock
	subs     Subscriptions
	settings Settings
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(sender Sender, stock Stock, subs Subscriptions, settings Settings, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		sender:   sender,
		stock:    stock,
		subs:     subs,
		settings: settings,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the scheduler loop. The first check runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("expiry reminders", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the loop and waits for a running check to finish.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// RunOnce checks the inventory and sends any reminders not yet sent today.
// It returns the number of notifications delivered.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	enabled, err := s.settings.RemindersEnabled()
	if err != nil {
		return 0, fmt.Errorf("read reminder setting: %w", err)
	}
	if !enabled {
		return 0, nil
	}

	now := s.now()
	if n, err := s.subs.PruneReminders(now.Add(-reminderRetention)); err != nil {
		s.logger.Warn("prune reminder log", "error", err)
	} else if n > 0 {
		s.logger.Debug("pruned reminder log", "rows", n)
	}

	subs, err := s.subs.List()
	if err != nil {
		return 0, err
	}
	if len(subs) == 0 {
		return 0, nil
	}

	if err := s.stock.Refresh(ctx); err != nil {
		return 0, err
	}
	items, err := s.stock.Items()
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, item := range items {
		if strings.HasPrefix(item.ID, "tmp-") {
			continue
		}
		payload, notifType, ok := reminderFor(item, now)
		if !ok {
			continue
		}

		// Recording first keeps a failed send from being retried every tick.
		fresh, err := s.subs.MarkReminded(item.ID, notifType, now)
		if err != nil {
			s.logger.Error("record reminder", "item", item.ID, "error", err)
			continue
		}
		if !fresh {
			continue
		}

		for i := range subs {
			sub := &subs[i]
			if sub.Endpoint == "" {
				continue
			}
			err := s.sender.Send(sub, payload)
			switch {
			case err == nil:
				sent++
			case errors.Is(err, ErrExpired):
				s.logger.Info("removing expired push subscription", "id", sub.ID)
				if err := s.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
					s.logger.Error("delete push subscription", "id", sub.ID, "error", err)
				}
				sub.Endpoint = ""
			default:
				s.logger.Warn("send expiry reminder", "item", item.ID, "subscription", sub.ID, "error", err)
			}
		}
	}
	return sent, nil
}

func reminderFor(item model.InventoryItem, now time.Time) (Payload, string, bool) {
	name := item.Name()
	if name == "" {
		name = "An item"
	}

	r := freshness.Classify(item.ExpiryDate, now)
	p := Payload{URL: "/inventory", Tag: "expiry-" + item.ID}
	switch r.Status {
	case freshness.StatusLow:
		p.Title = "Use it soon"
		p.Body = name + " expires within a day"
		return p, model.NotifTypeExpiryLow, true
	case freshness.StatusExpired:
		p.Title = "Expired"
		p.Body = name + " has expired"
		return p, model.NotifTypeExpiryExpired, true
	}
	return Payload{}, "", false
}
