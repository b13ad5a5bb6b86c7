// Package swipe records user decisions on events and triggers group formation.
package swipe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kcruz3/bubbl/internal/auth"
	"github.com/kcruz3/bubbl/internal/grouping"
	"github.com/kcruz3/bubbl/internal/metrics"
	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

// Policy covers behaviors that product has not settled on.
type Policy struct {
	// RetractOnNo withdraws a user's pending match when they later swipe "no".
	RetractOnNo bool

	// CountRepeatYes bumps popularity on every "yes". When false, only a
	// transition into "yes" (no previous rating, or previous "no") counts.
	CountRepeatYes bool
}

// DefaultPolicy keeps pending matches on "no" and counts every "yes".
func DefaultPolicy() Policy {
	return Policy{RetractOnNo: false, CountRepeatYes: true}
}

// Result is the outcome of one recorded decision.
type Result struct {
	Decision models.Decision

	// Grouped is true when this decision completed a group.
	Grouped bool
	Group   *models.Group
	Members int

	// AlreadyPending is true when the user already waits for a group on this event.
	AlreadyPending bool

	// Withdrawn is true when a "no" removed the user's pending match.
	Withdrawn bool
}

// Intake is the single writer that turns decisions into ratings, matches and groups.
type Intake struct {
	engine *grouping.Engine
	policy Policy
	logger *slog.Logger
}

// NewIntake creates an intake that runs every decision through engine.
func NewIntake(engine *grouping.Engine, policy Policy, logger *slog.Logger) *Intake {
	if logger == nil {
		logger = slog.Default()
	}
	return &Intake{engine: engine, policy: policy, logger: logger}
}

// RecordDecision stores a user's decision on an event.
//
// The rating is always upserted. On "yes" the event's popularity is bumped and,
// unless the user already has a pending match, a pending match is recorded and
// group formation is attempted, all in one transaction. Conflicts with
// concurrent swipes are retried by the engine.
func (in *Intake) RecordDecision(ctx context.Context, userID string, eventID int64, decision models.Decision) (*Result, error) {
	if userID == "" {
		return nil, auth.ErrUnauthenticated
	}

	var result *Result
	err := in.engine.Atomically(ctx, func(ctx context.Context, tx storage.EventTx) error {
		// Fresh result per attempt; a retried transaction must not see stale state.
		result = &Result{Decision: decision}

		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}

		prev, err := tx.UpsertRating(ctx, userID, eventID, decision)
		if err != nil {
			return err
		}

		if decision != models.DecisionYes {
			if in.policy.RetractOnNo {
				result.Withdrawn, err = tx.WithdrawPendingMatch(ctx, eventID, userID)
				if err != nil {
					return err
				}
			}
			return nil
		}

		if in.policy.CountRepeatYes || prev == nil || *prev != models.DecisionYes {
			if err := tx.BumpPopularity(ctx, eventID); err != nil {
				return err
			}
		}

		pending, err := tx.HasPendingMatch(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if pending {
			result.AlreadyPending = true
			return nil
		}

		if err := tx.InsertPendingMatch(ctx, &models.Match{EventID: eventID, UserID: userID}); err != nil {
			return err
		}

		formation, err := in.engine.MaybeFormGroup(ctx, tx, event)
		if err != nil {
			return err
		}
		result.Grouped = formation.Formed
		result.Group = formation.Group
		result.Members = formation.Members

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record decision for event %d: %w", eventID, err)
	}

	metrics.RecordSwipe(decision.String())
	if result.AlreadyPending {
		metrics.RecordPendingRepeat()
	}
	if result.Grouped {
		metrics.RecordGroupFormed(result.Members)
		in.logger.Info("Group formed",
			"event_id", eventID,
			"group_id", result.Group.ID,
			"members", result.Members,
		)
	}

	return result, nil
}
