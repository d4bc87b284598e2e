package allergy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ingrediguard/internal/metrics"
)

// MenuSource supplies the stored menu as filter input.
type MenuSource interface {
	MenuItems(ctx context.Context) ([]MenuItem, error)
}

// Unrecognized is a user token the taxonomy does not list. It is still
// searched for literally; Suggestion is the closest known term, if any.
type Unrecognized struct {
	Token      string `json:"token"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Report is the outcome of one check.
type Report struct {
	Results      []Result       `json:"results"`
	Unrecognized []Unrecognized `json:"unrecognized"`
}

// Service is the logging and metrics boundary around the Matcher.
type Service struct {
	matcher *Matcher
	menu    MenuSource
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(matcher *Matcher, menu MenuSource, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Service{matcher: matcher, menu: menu, metrics: m, log: log}
}

// --------------------------------------------------
// Check ad-hoc items
// --------------------------------------------------
func (s *Service) Check(ctx context.Context, items []MenuItem, allergenText string) (*Report, error) {
	return s.check(items, Tokenize(allergenText))
}

func (s *Service) check(items []MenuItem, tokens []string) (*Report, error) {
	start := time.Now()
	results, err := s.matcher.filterTokens(items, tokens)
	elapsed := time.Since(start)
	s.metrics.AllergyCheckLatency.Observe(elapsed.Seconds())

	if err != nil {
		if errors.Is(err, ErrNoAllergens) {
			s.metrics.AllergyChecksTotal.WithLabelValues("no_allergens").Inc()
			s.log.Warn("allergy check without allergens", zap.Int("items", len(items)))
		} else {
			s.metrics.AllergyChecksTotal.WithLabelValues("error").Inc()
			s.log.Error("allergy check failed", zap.Error(err))
		}
		return nil, err
	}

	unsafe := 0
	for _, r := range results {
		if !r.IsSafe {
			unsafe++
		}
	}
	s.metrics.AllergyChecksTotal.WithLabelValues("ok").Inc()
	s.metrics.UnsafeItemsTotal.Add(float64(unsafe))

	s.log.Info("allergy check",
		zap.Int("items", len(items)),
		zap.Int("tokens", len(tokens)),
		zap.Int("unsafe", unsafe),
		zap.Duration("took", elapsed),
	)

	return &Report{
		Results:      results,
		Unrecognized: s.unrecognized(tokens),
	}, nil
}

// --------------------------------------------------
// Check the stored menu
// --------------------------------------------------
func (s *Service) CheckMenu(ctx context.Context, allergenText string) (*Report, error) {
	tokens := Tokenize(allergenText)
	if len(tokens) == 0 {
		return s.check(nil, tokens)
	}

	items, err := s.menu.MenuItems(ctx)
	if err != nil {
		s.metrics.AllergyChecksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load menu: %w", err)
	}
	return s.check(items, tokens)
}

func (s *Service) unrecognized(tokens []string) []Unrecognized {
	tax := s.matcher.Taxonomy()
	out := make([]Unrecognized, 0)
	for _, tok := range tokens {
		if tax.Known(tok) {
			continue
		}
		u := Unrecognized{Token: tok}
		if suggestion, _, ok := tax.Suggest(tok); ok {
			u.Suggestion = suggestion
		}
		out = append(out, u)
	}
	return out
}
