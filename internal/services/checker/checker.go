package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Houeta/yard-scout/internal/bot"
	"github.com/Houeta/yard-scout/internal/models"
	"github.com/Houeta/yard-scout/internal/parser"
	"github.com/Houeta/yard-scout/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrSourceUnavailable = errors.New("inventory source unavailable")
	ErrLoadRecord        = errors.New("failed to load inventory record")
	ErrPersist           = errors.New("failed to persist inventory record")
	ErrNotify            = errors.New("failed to deliver notification")
	ErrCycleInProgress   = errors.New("another check cycle is in progress")
	ErrCyclePanic        = errors.New("check cycle panicked")
)

// Outcome is the terminal state of one check cycle.
type Outcome int

const (
	// OutcomeAborted - the cycle stopped on a fetch, load or save failure and changed nothing.
	OutcomeAborted Outcome = iota
	// OutcomeNoNewItems - nothing new, nothing written, nothing sent.
	OutcomeNoNewItems
	// OutcomeNotified - the record was replaced and the notification was delivered.
	OutcomeNotified
	// OutcomeNotifyFailed - the record was replaced but the notification was not delivered.
	OutcomeNotifyFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAborted:
		return "aborted"
	case OutcomeNoNewItems:
		return "no_new_items"
	case OutcomeNotified:
		return "notified"
	case OutcomeNotifyFailed:
		return "notify_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes how a cycle ended.
type Result struct {
	CycleID  string
	Outcome  Outcome
	Fetched  int
	NewItems []models.InventoryItem
	// Err is set for OutcomeAborted and OutcomeNotifyFailed.
	Err error
}

// Checker is an orchestrator that performs a full verification cycle.
type Checker struct {
	log      *slog.Logger
	source   parser.InventorySource
	store    repository.SnapshotStore
	notifier bot.Notifier
	title    string

	// mu is held for the whole cycle so two cycles never share the record.
	mu sync.Mutex
}

type Interface interface {
	// RunOnce performs one full check cycle.
	RunOnce(ctx context.Context) Result
}

// Option configures optional Checker parameters.
type Option func(*Checker)

// WithTitle sets the name used for the items in notification messages.
func WithTitle(title string) Option {
	return func(c *Checker) {
		if title != "" {
			c.title = title
		}
	}
}

// NewChecker creates a new Checker instance.
func NewChecker(
	log *slog.Logger,
	source parser.InventorySource,
	store repository.SnapshotStore,
	notifier bot.Notifier,
	opts ...Option,
) *Checker {
	c := &Checker{log: log, source: source, store: store, notifier: notifier, title: DefaultTitle}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunOnce fetches the current inventory, compares it with the persisted record and,
// when new items showed up, saves the new snapshot and then sends one notification.
// Failures are logged and reported in the Result; RunOnce never panics or returns an error.
func (c *Checker) RunOnce(ctx context.Context) (res Result) {
	const opn = "checker.RunOnce"
	res.CycleID = uuid.NewString()
	log := c.log.With("op", opn, "cycle_id", res.CycleID)

	if !c.mu.TryLock() {
		res.Outcome = OutcomeAborted
		res.Err = ErrCycleInProgress
		log.WarnContext(ctx, "Skipping inventory check", "error", res.Err)
		return res
	}
	defer c.mu.Unlock()

	saved := false
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("%w: %v", ErrCyclePanic, r)
			res.Outcome = OutcomeAborted
			if saved {
				res.Outcome = OutcomeNotifyFailed
			}
			log.ErrorContext(ctx, "An error occurred during the inventory check", "error", res.Err)
		}
	}()

	log.InfoContext(ctx, "Starting inventory check")

	// 1. Scrape the current inventory
	current, err := c.source.FetchSnapshot(ctx)
	if err != nil {
		return abort(ctx, log, res, fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}
	res.Fetched = len(current)
	log.InfoContext(ctx, "Fetched current inventory", "count", res.Fetched)

	// 2. Load the previous record
	previous, err := c.store.Load(ctx)
	if err != nil {
		return abort(ctx, log, res, fmt.Errorf("%w: %w", ErrLoadRecord, err))
	}

	// 3. Find new inventory
	res.NewItems = NewItems(current, previous)
	if len(res.NewItems) == 0 {
		res.Outcome = OutcomeNoNewItems
		log.InfoContext(ctx, "No new entries found.")
		return res
	}
	log.InfoContext(ctx, fmt.Sprintf("Found %d new entries. Updating record.", len(res.NewItems)))

	// 4. Replace the record; nothing is sent unless this succeeded.
	if err = c.store.Save(ctx, current); err != nil {
		return abort(ctx, log, res, fmt.Errorf("%w: %w", ErrPersist, err))
	}
	saved = true

	// 5. Send one message about every new item
	if err = c.notifier.Notify(ctx, FormatMessage(c.title, res.NewItems)); err != nil {
		res.Outcome = OutcomeNotifyFailed
		res.Err = fmt.Errorf("%w: %w", ErrNotify, err)
		log.ErrorContext(ctx, "Error sending notification, record already updated", "error", res.Err)
		return res
	}

	res.Outcome = OutcomeNotified
	log.InfoContext(ctx, "Sent notification. Inventory check completed.", "new", len(res.NewItems))
	return res
}

func abort(ctx context.Context, log *slog.Logger, res Result, err error) Result {
	res.Outcome = OutcomeAborted
	res.Err = err
	log.ErrorContext(ctx, "An error occurred during the inventory check", "error", err)
	return res
}
