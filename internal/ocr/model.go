package ocr

import (
	"errors"
	"time"
)

// Upload statuses, in pipeline order.
const (
	StatusUploaded   = "MENU_UPLOADED"
	StatusProcessing = "OCR_PROCESSING"
	StatusParsed     = "PARSED"
	StatusFailed     = "FAILED"
)

var (
	ErrOCRDisabled    = errors.New("OCR is disabled")
	ErrMissingAPIKey  = errors.New("OCR API key not set, configure it in admin settings")
	ErrNoText         = errors.New("no text extracted from image")
	ErrUploadNotFound = errors.New("menu upload not found")
	ErrNotRetryable   = errors.New("only failed uploads can be retried")
)

// Upload tracks one menu image through the OCR pipeline.
type Upload struct {
	ID         int64     `json:"id"`
	ObjectKey  string    `json:"object_key"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	RawText    string    `json:"raw_text,omitempty"`
	Error      string    `json:"error,omitempty"`
	ItemsAdded int       `json:"items_added"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
