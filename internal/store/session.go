// Package store owns the mutable state of one assessment session:
// the ratings table and the append-only cycle history. State lives in
// memory only and is discarded at process end; file export is the only
// way out.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"govassess/internal/model"
)

var (
	ErrUnknownCode     = errors.New("unknown question code")
	ErrValueOutOfRange = errors.New("value out of range")
)

// Session is the explicitly owned container for one user's assessment.
// Edits take the write lock; scoring reads work on snapshots, so a slow
// recommendation dispatch never serializes rating edits.
type Session struct {
	id        string
	startedAt time.Time

	mu         sync.RWMutex
	ratings    map[string]model.Rating
	history    []model.CycleSnapshot
	cycleStart time.Time
}

// NewSession seeds one rating per catalog question from its defaults.
func NewSession(questions []model.Question) *Session {
	now := time.Now()
	s := &Session{
		id:         uuid.NewString(),
		startedAt:  now,
		cycleStart: now,
	}
	s.ratings = seed(questions)
	return s
}

func seed(questions []model.Question) map[string]model.Rating {
	ratings := make(map[string]model.Rating, len(questions))
	for _, q := range questions {
		ratings[q.Code] = model.Rating{
			Code:    q.Code,
			Current: q.DefaultCurrent,
			Target:  q.DefaultTarget,
		}
	}
	return ratings
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// SetCurrent updates the current maturity level for one question.
func (s *Session) SetCurrent(code string, v int) error {
	if !model.ValidLevel(v) {
		return fmt.Errorf("%w: current=%d, want %d-%d", ErrValueOutOfRange, v, model.LevelMin, model.LevelMax)
	}
	return s.update(code, func(r *model.Rating) { r.Current = v })
}

// SetTarget updates the target maturity level for one question.
func (s *Session) SetTarget(code string, v int) error {
	if !model.ValidLevel(v) {
		return fmt.Errorf("%w: target=%d, want %d-%d", ErrValueOutOfRange, v, model.LevelMin, model.LevelMax)
	}
	return s.update(code, func(r *model.Rating) { r.Target = v })
}

// SetActionItems replaces the free-text action items for one question.
func (s *Session) SetActionItems(code, text string) error {
	return s.update(code, func(r *model.Rating) { r.ActionItems = text })
}

// SetBenefit updates the benefit score for one question.
func (s *Session) SetBenefit(code string, v int) error {
	if !model.ValidScale(v) {
		return fmt.Errorf("%w: benefit=%d, want %d-%d", ErrValueOutOfRange, v, model.ScaleMin, model.ScaleMax)
	}
	return s.update(code, func(r *model.Rating) { r.Benefit = v })
}

// SetEffort updates the effort score for one question.
func (s *Session) SetEffort(code string, v int) error {
	if !model.ValidScale(v) {
		return fmt.Errorf("%w: effort=%d, want %d-%d", ErrValueOutOfRange, v, model.ScaleMin, model.ScaleMax)
	}
	return s.update(code, func(r *model.Rating) { r.Effort = v })
}

func (s *Session) update(code string, apply func(*model.Rating)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[code]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	apply(&r)
	s.ratings[code] = r
	return nil
}

// Rating returns one rating by question code.
func (s *Session) Rating(code string) (model.Rating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ratings[code]
	return r, ok
}

// Ratings returns a consistent copy of the full table keyed by code.
func (s *Session) Ratings() map[string]model.Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Rating, len(s.ratings))
	for code, r := range s.ratings {
		out[code] = r
	}
	return out
}

// CloseCycle freezes the given summary into history and reseeds every
// rating from catalog defaults for the next pass. The stored snapshot
// gets its id and timestamps here.
func (s *Session) CloseCycle(snap model.CycleSnapshot, questions []model.Question) model.CycleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.ID = uuid.NewString()
	snap.StartedAt = s.cycleStart
	snap.ClosedAt = time.Now()
	s.history = append(s.history, snap)
	s.ratings = seed(questions)
	s.cycleStart = snap.ClosedAt
	return snap
}

// History returns past-cycle snapshots, oldest first.
func (s *Session) History() []model.CycleSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CycleSnapshot, len(s.history))
	copy(out, s.history)
	return out
}
