package approval

import (
	"errors"
	"fmt"
	"time"

	"vehicle-request-api/internal/model"
)

var (
	ErrInvalidLevel    = errors.New("invalid approval level")
	ErrInvalidDecision = errors.New("invalid approval decision")
	ErrChainNotReady   = errors.New("previous approval level not approved")
	ErrAlreadyDecided  = errors.New("approval level already decided")
)

// IsPolicyError reports whether err was raised by ValidateTransition.
func IsPolicyError(err error) bool {
	return errors.Is(err, ErrInvalidLevel) ||
		errors.Is(err, ErrInvalidDecision) ||
		errors.Is(err, ErrChainNotReady) ||
		errors.Is(err, ErrAlreadyDecided)
}

// Transition is a proposed decision on one level.
type Transition struct {
	Level    int
	Decision string
	ActorID  uint
	Notes    string
}

// Outcome is the result of applying a transition.
type Outcome struct {
	Request  model.VehicleRequest
	Level    int
	Decision string
	ActorID  uint
	Notes    string
	MaxLevel int
	Terminal bool
}

// ValidateTransition checks a proposed decision against the current chain.
// Checks run in order: level range, decision value, chain gating, slot
// still pending.
func ValidateTransition(req *model.VehicleRequest, level int, decision string) error {
	maxLevel := ApplicableMaxLevel(req.LocationType)
	if level < 1 || level > maxLevel {
		return fmt.Errorf("%w: must be between 1 and %d for %s", ErrInvalidLevel, maxLevel, req.LocationType)
	}
	if decision != model.StatusApproved && decision != model.StatusRejected {
		return fmt.Errorf("%w: must be %s or %s", ErrInvalidDecision, model.StatusApproved, model.StatusRejected)
	}
	if level > 1 && req.Slot(level-1).Status != model.StatusApproved {
		return fmt.Errorf("%w: approval %d must be approved first", ErrChainNotReady, level-1)
	}
	if req.Slot(level).Status != model.StatusPending {
		return fmt.Errorf("%w: approval %d is %s", ErrAlreadyDecided, level, req.Slot(level).Status)
	}
	return nil
}

// ApplyTransition returns a copy of req with t applied. It assumes t passed
// ValidateTransition.
func ApplyTransition(req model.VehicleRequest, t Transition, now time.Time) Outcome {
	at := now
	actor := t.ActorID
	var notes *string
	if t.Notes != "" {
		n := t.Notes
		notes = &n
	}

	req.SetSlot(t.Level, model.ApprovalSlot{
		Status: t.Decision,
		By:     &actor,
		At:     &at,
		Notes:  notes,
	})
	req.UpdatedAt = now

	maxLevel := ApplicableMaxLevel(req.LocationType)
	out := Outcome{
		Level:    t.Level,
		Decision: t.Decision,
		ActorID:  t.ActorID,
		Notes:    t.Notes,
		MaxLevel: maxLevel,
	}

	switch {
	case t.Decision == model.StatusRejected:
		req.Status = model.StatusRejected
		req.RejectionReason = notes
		out.Terminal = true
	case t.Level == maxLevel:
		req.Status = model.StatusApproved
		req.ApprovedBy = &actor
		req.ApprovedAt = &at
		out.Terminal = true
	default:
		req.Status = model.StatusPending
	}

	out.Request = req
	return out
}

// AwaitingLevel returns the level currently waiting for a decision, or 0 when
// the chain is finished. Levels above the applicable max are never returned.
func AwaitingLevel(req *model.VehicleRequest) int {
	if req.Status != model.StatusPending {
		return 0
	}
	maxLevel := ApplicableMaxLevel(req.LocationType)
	for level := 1; level <= maxLevel; level++ {
		switch req.Slot(level).Status {
		case model.StatusPending:
			return level
		case model.StatusRejected:
			return 0
		}
	}
	return 0
}
