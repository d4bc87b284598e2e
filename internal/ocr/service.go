// Package ocr turns photographed menus into menu rows. Images are queued in
// menu_uploads, a worker claims them one at a time, runs an OCR engine and
// imports whatever dishes it can read.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"

	"ingrediguard/internal/menu"
	"ingrediguard/internal/metrics"
	"ingrediguard/internal/storage"
)

// ObjectPrefix is the storage prefix for uploaded images.
const ObjectPrefix = "menus"

// DefaultStaleAfter is how long an upload may sit in OCR_PROCESSING before
// the worker gives up on it.
const DefaultStaleAfter = 10 * time.Minute

// interruptedReason is recorded on uploads reclaimed by ReclaimStale.
const interruptedReason = "processing interrupted; some dishes may already be on the menu, check it before retrying"

// MenuImporter stores rows read from an image. menu.Service satisfies it.
type MenuImporter interface {
	ImportRows(ctx context.Context, rows []menu.Row, replace bool, source string) (int, error)
}

type Service struct {
	repo    Repository
	store   storage.Storage
	engine  Engine
	menu    MenuImporter
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewService(
	repo Repository,
	store storage.Storage,
	engine Engine,
	importer MenuImporter,
	m *metrics.Metrics,
	log *zap.Logger,
) *Service {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		store:   store,
		engine:  engine,
		menu:    importer,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// Submit stores an uploaded image and queues it for OCR.
func (s *Service) Submit(ctx context.Context, file *multipart.FileHeader) (*Upload, error) {
	if err := menu.ValidateImageFile(file.Filename); err != nil {
		return nil, err
	}

	key, err := storage.UploadMultipartFile(ctx, s.store, ObjectPrefix, file)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	upload, err := s.repo.Create(ctx, key, file.Filename)
	if err != nil {
		return nil, fmt.Errorf("queue upload: %w", err)
	}

	s.metrics.OCRJobsTotal.WithLabelValues("queued").Inc()
	s.log.Info("menu image queued",
		zap.Int64("upload_id", upload.ID),
		zap.String("object_key", key),
	)
	return upload, nil
}

func (s *Service) Status(ctx context.Context, id int64) (*Upload, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Retry(ctx context.Context, id int64) error {
	if err := s.repo.Retry(ctx, id); err != nil {
		return err
	}
	s.log.Info("menu upload requeued", zap.Int64("upload_id", id))
	return nil
}

// ProcessOne claims and processes a single pending upload. It reports
// whether there was one. Failures of the upload itself are recorded on the
// row; only repository errors are returned.
//
// Importing dishes and marking the row PARSED are separate writes. If the
// second one fails, or the process dies in between, the row stays in
// OCR_PROCESSING until ReclaimStale fails it.
func (s *Service) ProcessOne(ctx context.Context) (bool, error) {
	upload, err := s.repo.ClaimNext(ctx)
	if err != nil {
		return false, fmt.Errorf("claim upload: %w", err)
	}
	if upload == nil {
		return false, nil
	}

	log := s.log.With(zap.Int64("upload_id", upload.ID), zap.String("object_key", upload.ObjectKey))
	log.Info("ocr processing")

	raw, n, err := s.process(ctx, upload)
	if err != nil {
		log.Warn("ocr failed", zap.Error(err))
		s.metrics.OCRJobsTotal.WithLabelValues("failed").Inc()
		if markErr := s.repo.MarkFailed(ctx, upload.ID, raw, err.Error()); markErr != nil {
			return true, fmt.Errorf("mark upload %d failed: %w", upload.ID, markErr)
		}
		return true, nil
	}

	if err := s.repo.MarkParsed(ctx, upload.ID, raw, n); err != nil {
		return true, fmt.Errorf("mark upload %d parsed: %w", upload.ID, err)
	}
	s.metrics.OCRJobsTotal.WithLabelValues("parsed").Inc()
	log.Info("ocr done", zap.Int("items_added", n))
	return true, nil
}

func (s *Service) process(ctx context.Context, upload *Upload) (string, int, error) {
	image, err := s.fetch(ctx, upload.ObjectKey)
	if err != nil {
		return "", 0, err
	}

	raw, err := s.engine.ExtractText(ctx, upload.Filename, image)
	if err != nil {
		return "", 0, err
	}

	rows, err := TextToRows(raw)
	if err != nil {
		return raw, 0, err
	}

	n, err := s.menu.ImportRows(ctx, rows, false, menu.SourceOCR)
	if err != nil {
		return raw, 0, err
	}
	if n == 0 {
		return raw, 0, errors.New("no menu items found in image")
	}
	return raw, n, nil
}

func (s *Service) fetch(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("image is empty")
	}
	return data, nil
}

// ReclaimStale fails uploads stuck in OCR_PROCESSING for longer than
// staleAfter so an admin can retry them.
func (s *Service) ReclaimStale(ctx context.Context, staleAfter time.Duration) (int, error) {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	n, err := s.repo.ReclaimStale(ctx, s.now().Add(-staleAfter), interruptedReason)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale uploads: %w", err)
	}
	if n > 0 {
		s.metrics.OCRJobsTotal.WithLabelValues("stale").Add(float64(n))
		s.log.Warn("stale menu uploads failed", zap.Int("count", n), zap.Duration("stale_after", staleAfter))
	}
	return n, nil
}

// TextToRows cleans OCR text and parses it into menu rows.
func TextToRows(raw string) ([]menu.Row, error) {
	doc, err := TextToCSV(CleanText(raw))
	if err != nil {
		return nil, err
	}
	return menu.ParseCSV(strings.NewReader(doc))
}
