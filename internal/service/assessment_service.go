package service

import (
	"errors"
	"fmt"

	"govassess/internal/catalog"
	"govassess/internal/model"
	"govassess/internal/scoring"
	"govassess/internal/store"
)

var (
	ErrEmptyPatch      = errors.New("no field to update")
	ErrMultiFieldPatch = errors.New("ratings are edited one field at a time")
)

// Default size of the dashboard "top actions" panel. The recommendation
// prompt uses its own, independently configured limit.
const dashboardGapLimit = 5

// AssessmentService exposes the ratings table and everything derived
// from it. All derived values are recomputed per read from a session
// snapshot; nothing here holds locks across calls.
type AssessmentService struct {
	catalog *catalog.Catalog
	session *store.Session
}

// NewAssessmentService creates a new assessment service.
func NewAssessmentService(cat *catalog.Catalog, session *store.Session) *AssessmentService {
	return &AssessmentService{catalog: cat, session: session}
}

// Rows returns the full derived table in catalog order.
func (s *AssessmentService) Rows() []scoring.Row {
	return scoring.Derive(s.catalog.Questions, s.catalog.DomainName, s.session.Ratings())
}

// Summary returns the per-domain aggregates.
func (s *AssessmentService) Summary() []scoring.DomainSummary {
	return scoring.Aggregate(s.catalog.Domains, s.Rows())
}

// TopGaps returns the n most urgent rows for the dashboard panel.
// n <= 0 selects the default panel size.
func (s *AssessmentService) TopGaps(n int) []scoring.Row {
	if n <= 0 {
		n = dashboardGapLimit
	}
	return scoring.TopGapItems(s.Rows(), n)
}

// Rating returns one rating by question code.
func (s *AssessmentService) Rating(code string) (model.Rating, bool) {
	return s.session.Rating(code)
}

// UpdateRating applies exactly one field edit and returns the updated
// rating. Patches setting zero or more than one field are rejected.
func (s *AssessmentService) UpdateRating(code string, patch model.RatingPatch) (model.Rating, error) {
	switch patch.Fields() {
	case 0:
		return model.Rating{}, ErrEmptyPatch
	case 1:
	default:
		return model.Rating{}, ErrMultiFieldPatch
	}

	var err error
	switch {
	case patch.Current != nil:
		err = s.session.SetCurrent(code, *patch.Current)
	case patch.Target != nil:
		err = s.session.SetTarget(code, *patch.Target)
	case patch.ActionItems != nil:
		err = s.session.SetActionItems(code, *patch.ActionItems)
	case patch.Benefit != nil:
		err = s.session.SetBenefit(code, *patch.Benefit)
	case patch.Effort != nil:
		err = s.session.SetEffort(code, *patch.Effort)
	}
	if err != nil {
		return model.Rating{}, err
	}

	r, ok := s.session.Rating(code)
	if !ok {
		return model.Rating{}, fmt.Errorf("%w: %q", store.ErrUnknownCode, code)
	}
	return r, nil
}

// CloseCycle freezes the current pass into an immutable history
// snapshot and reseeds the ratings from catalog defaults.
func (s *AssessmentService) CloseCycle() model.CycleSnapshot {
	rows := s.Rows()
	meanCurrent, meanTarget, meanGap := scoring.Overall(rows)

	summaries := scoring.Aggregate(s.catalog.Domains, rows)
	domains := make([]model.DomainResult, 0, len(summaries))
	for _, d := range summaries {
		domains = append(domains, model.DomainResult{
			DomainID:     d.DomainID,
			DomainName:   d.DomainName,
			MeanCurrent:  d.MeanCurrent,
			MeanTarget:   d.MeanTarget,
			MeanGap:      d.MeanGap,
			CriticalHigh: d.CriticalHigh,
		})
	}

	snap := model.CycleSnapshot{
		MeanCurrent: meanCurrent,
		MeanTarget:  meanTarget,
		MeanGap:     meanGap,
		Domains:     domains,
	}
	return s.session.CloseCycle(snap, s.catalog.Questions)
}

// History returns past-cycle snapshots, oldest first.
func (s *AssessmentService) History() []model.CycleSnapshot {
	return s.session.History()
}
