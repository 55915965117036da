package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"govassess/internal/llm"
	"govassess/internal/model"
	"govassess/internal/scoring"
)

// How many highest-gap items the prompt enumerates. Deliberately
// independent from the dashboard panel limit.
const promptGapLimit = 10

const systemPrompt = "You are a governance and compliance advisor helping an organization " +
	"close maturity gaps found in a self-assessment. Be concrete and practical; assume a " +
	"mid-sized organization with limited dedicated governance staff."

// testConnectionPrompt makes test-connection a degenerate call of the
// normal pipeline rather than a parallel code path.
const testConnectionPrompt = "respond with exactly: 'Connection successful'"

// RecommendationService builds an advisory prompt from the current gap
// table and dispatches it to the configured backend. Requests are
// synchronous and unguarded against concurrent invocation; the single
// user re-triggers explicitly after any failure.
type RecommendationService struct {
	assessment *AssessmentService

	mu  sync.RWMutex
	cfg llm.Config

	// newProvider is the adapter factory; tests substitute it.
	newProvider func(llm.Config) (llm.Provider, error)
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(assessment *AssessmentService, cfg llm.Config) *RecommendationService {
	return &RecommendationService{
		assessment:  assessment,
		cfg:         cfg,
		newProvider: llm.New,
	}
}

// Config returns the active provider configuration.
func (s *RecommendationService) Config() llm.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetConfig replaces the active provider configuration.
func (s *RecommendationService) SetConfig(cfg llm.Config) error {
	if _, err := llm.ParseKind(string(cfg.Provider)); err != nil {
		return err
	}
	if cfg.Provider == llm.KindOllama && cfg.Model == "" {
		return errors.New("the ollama provider requires a model name")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = llm.DefaultTimeout
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Generate derives the gap table and asks the backend for
// recommendations on the highest-gap items. An assessment without
// positive gaps short-circuits with an informational result, not an
// error.
func (s *RecommendationService) Generate(ctx context.Context) (*model.Recommendation, error) {
	top := scoring.TopGapItems(s.assessment.Rows(), promptGapLimit)
	if len(top) == 0 {
		return &model.Recommendation{
			Status:      model.RecommendationNoGaps,
			Text:        "All current levels meet their targets; there is nothing to analyze.",
			GeneratedAt: time.Now(),
		}, nil
	}
	return s.dispatch(ctx, llm.Prompt{System: systemPrompt, User: buildGapPrompt(top)})
}

// TestConnection exercises the identical dispatch path with a trivial
// prompt instead of the gap table.
func (s *RecommendationService) TestConnection(ctx context.Context) (*model.Recommendation, error) {
	return s.dispatch(ctx, llm.Prompt{System: systemPrompt, User: testConnectionPrompt})
}

func (s *RecommendationService) dispatch(ctx context.Context, prompt llm.Prompt) (*model.Recommendation, error) {
	cfg := s.Config()
	provider, err := s.newProvider(cfg)
	if err != nil {
		return nil, err
	}
	text, err := provider.Send(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &model.Recommendation{
		Status:      model.RecommendationReady,
		Provider:    string(cfg.Provider),
		Model:       cfg.Model,
		Text:        text,
		GeneratedAt: time.Now(),
	}, nil
}

func buildGapPrompt(rows []scoring.Row) string {
	var sb strings.Builder
	sb.WriteString("These are the governance questions with the widest maturity gaps, most urgent first:\n\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "- %s (%s): %q — current level %d, target level %d, gap %d\n",
			r.Code, r.DomainName, r.Question, r.Current, r.Target, r.Gap)
	}
	sb.WriteString("\nFor each item, grouped by its code, recommend:\n")
	sb.WriteString("1. Concrete action steps to close the gap.\n")
	sb.WriteString("2. The stakeholders who must be involved.\n")
	sb.WriteString("3. A timeline bucket: quick win (3 months or less) or strategic (6-12 months).\n")
	sb.WriteString("4. Dependencies on the other items listed here.\n")
	return sb.String()
}
