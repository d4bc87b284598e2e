package ocr

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the worker polls for uploads.
const DefaultInterval = 2 * time.Second

// Run polls for pending uploads until ctx is done. Each tick fails stale
// OCR_PROCESSING rows, then drains the queue before waiting again.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s.log.Info("OCR worker started", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("OCR worker stopped")
			return nil
		case <-ticker.C:
			if _, err := s.ReclaimStale(ctx, DefaultStaleAfter); err != nil {
				s.log.Error("OCR error", zap.Error(err))
			}
			s.drain(ctx)
		}
	}
}

func (s *Service) drain(ctx context.Context) {
	for ctx.Err() == nil {
		processed, err := s.ProcessOne(ctx)
		if err != nil {
			s.log.Error("OCR error", zap.Error(err))
			return
		}
		if !processed {
			return
		}
	}
}
