// Package grouping forms groups out of pending matches once an event
// collects enough interested users.
package grouping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kcruz3/bubbl/internal/metrics"
	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

// MinThreshold is the smallest group size the engine will form.
const MinThreshold = 2

// Config controls when groups form and how conflicts are retried.
type Config struct {
	// Threshold is the number of pending matches that triggers a group.
	Threshold int

	// MaxRetries bounds how many times a conflicting transaction is re-run.
	MaxRetries int

	// RetryInterval is the initial backoff between retries.
	RetryInterval time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:     2,
		MaxRetries:    3,
		RetryInterval: 20 * time.Millisecond,
	}
}

// Formation describes the outcome of a group formation check.
type Formation struct {
	// Formed is true when a new group was created.
	Formed bool

	// Group is the new group. Nil unless Formed.
	Group *models.Group

	// Members is how many pending matches were attached to the group.
	Members int
}

// Engine decides when an event's pending matches become a group.
type Engine struct {
	store  storage.Transactor
	cfg    Config
	logger *slog.Logger
}

// NewEngine creates an engine. Thresholds below MinThreshold are raised to it.
func NewEngine(store storage.Transactor, cfg Config, logger *slog.Logger) *Engine {
	if cfg.Threshold < MinThreshold {
		cfg.Threshold = MinThreshold
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultConfig().RetryInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, cfg: cfg, logger: logger}
}

// Threshold returns the configured group size trigger.
func (e *Engine) Threshold() int {
	return e.cfg.Threshold
}

// MaybeFormGroup checks the event's pending matches inside tx and, if there
// are at least Threshold of them, creates a group and assigns every pending
// match of the event to it.
//
// The caller must hold the event lock for the duration of tx (see
// storage.EventTx.LockEvent) so the count and the assignment see the same set.
func (e *Engine) MaybeFormGroup(ctx context.Context, tx storage.EventTx, event *models.Event) (Formation, error) {
	pending, err := tx.CountPendingMatches(ctx, event.ID)
	if err != nil {
		return Formation{}, err
	}
	if pending < e.cfg.Threshold {
		return Formation{}, nil
	}

	existing, err := tx.CountGroups(ctx, event.ID)
	if err != nil {
		return Formation{}, err
	}

	group := &models.Group{
		EventID: event.ID,
		Name:    fmt.Sprintf("%s #%d", event.Name, existing+1),
	}
	if err := tx.CreateGroup(ctx, group); err != nil {
		return Formation{}, err
	}

	members, err := tx.AssignPendingMatches(ctx, event.ID, group.ID)
	if err != nil {
		return Formation{}, err
	}

	e.logger.Debug("Group formed",
		"event_id", event.ID,
		"group_id", group.ID,
		"members", members,
	)

	return Formation{Formed: true, Group: group, Members: members}, nil
}

// Atomically runs fn in a storage transaction. If the transaction loses a race
// with a concurrent writer (storage.ErrConflict) it is re-run with exponential
// backoff, up to MaxRetries times. Any other error aborts immediately.
func (e *Engine) Atomically(ctx context.Context, fn func(ctx context.Context, tx storage.EventTx) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = e.cfg.RetryInterval
	policy.MaxInterval = 50 * e.cfg.RetryInterval
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		err := e.store.WithinTx(ctx, fn)
		if err == nil || errors.Is(err, storage.ErrConflict) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		metrics.RecordFormationRetry()
		e.logger.Warn("Storage conflict, retrying transaction",
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(e.cfg.MaxRetries)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}
		return err
	}

	return nil
}
