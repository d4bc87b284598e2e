// Package settings stores runtime-editable configuration such as the
// OCR.space API key.
package settings

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const KeyOCR = "ocr_key"

var ErrEmptyValue = errors.New("value must not be empty")

type Service struct {
	repo     Repository
	fallback string
	log      *zap.Logger
}

// NewService returns a settings service. fallbackOCRKey is returned by
// OCRKey when nothing has been stored.
func NewService(repo Repository, fallbackOCRKey string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, fallback: fallbackOCRKey, log: log}
}

func (s *Service) OCRKey(ctx context.Context) (string, error) {
	v, ok, err := s.repo.Get(ctx, KeyOCR)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return s.fallback, nil
	}
	return v, nil
}

func (s *Service) SetOCRKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyValue
	}
	if err := s.repo.Set(ctx, KeyOCR, key); err != nil {
		return err
	}
	s.log.Info("ocr api key updated", zap.String("key", Mask(key)))
	return nil
}

// Mask hides all but the last four characters.
func Mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}
