package menu

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"ingrediguard/internal/allergy"
	"ingrediguard/internal/metrics"
)

// Import sources, used as metric labels.
const (
	SourceCSV = "csv"
	SourceOCR = "ocr"
)

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(repo Repository, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Service{repo: repo, metrics: m, log: log}
}

// --------------------------------------------------
// Add one dish
// --------------------------------------------------
func (s *Service) AddDish(ctx context.Context, item, ingredients string) (*Dish, error) {
	item = strings.TrimSpace(item)
	phrases := SplitIngredients(ingredients)
	if item == "" || len(phrases) == 0 {
		return nil, ErrInvalidDish
	}

	dish, err := s.repo.Add(ctx, item, strings.Join(phrases, ", "))
	if err != nil {
		return nil, fmt.Errorf("add dish: %w", err)
	}

	s.log.Info("dish added", zap.Int64("id", dish.ID), zap.String("item", dish.Item))
	return dish, nil
}

func (s *Service) DeleteDish(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dish %d: %w", id, err)
	}
	s.log.Info("dish deleted", zap.Int64("id", id))
	return nil
}

func (s *Service) ListDishes(ctx context.Context) ([]Dish, error) {
	return s.repo.List(ctx)
}

func (s *Service) ClearMenu(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear menu: %w", err)
	}
	s.log.Warn("menu cleared")
	return nil
}

// --------------------------------------------------
// CSV import / export
// --------------------------------------------------

// PreviewCSV parses a menu file without storing it.
func (s *Service) PreviewCSV(r io.Reader) ([]Row, error) {
	return ParseCSV(r)
}

// ImportCSV parses a menu file and stores its rows. With replace the current
// menu is swapped out atomically.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, replace bool) (int, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		s.metrics.MenuImportsTotal.WithLabelValues(SourceCSV, "invalid").Inc()
		return 0, err
	}
	return s.ImportRows(ctx, rows, replace, SourceCSV)
}

// ImportRows stores parsed rows. Rows without an item name are skipped.
func (s *Service) ImportRows(ctx context.Context, rows []Row, replace bool, source string) (int, error) {
	dishes := make([]Dish, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Item) == "" {
			continue
		}
		dishes = append(dishes, row.Dish())
	}

	var (
		n   int
		err error
	)
	if replace {
		n, err = s.repo.ReplaceAll(ctx, dishes)
	} else {
		n, err = s.repo.InsertMany(ctx, dishes)
	}
	if err != nil {
		s.metrics.MenuImportsTotal.WithLabelValues(source, "failed").Inc()
		return 0, fmt.Errorf("import menu: %w", err)
	}

	s.metrics.MenuImportsTotal.WithLabelValues(source, "ok").Inc()
	s.metrics.DishesImportedTotal.Add(float64(n))
	s.log.Info("menu imported",
		zap.String("source", source),
		zap.Int("dishes", n),
		zap.Int("skipped", len(rows)-n),
		zap.Bool("replace", replace),
	)
	return n, nil
}

// ExportCSV writes the whole menu as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	dishes, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("export menu: %w", err)
	}

	if err := WriteCSV(w, dishes); err != nil {
		return fmt.Errorf("export menu: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Filter input
// --------------------------------------------------

// MenuItems returns the stored menu as allergy filter input.
func (s *Service) MenuItems(ctx context.Context) ([]allergy.MenuItem, error) {
	dishes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]allergy.MenuItem, len(dishes))
	for i, d := range dishes {
		items[i] = d.MenuItem()
	}
	return items, nil
}
