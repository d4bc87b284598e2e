package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"
)

const DefaultOCRSpaceURL = "https://api.ocr.space/parse/image"

// KeySource yields the current OCR.space API key. settings.Service
// satisfies it.
type KeySource interface {
	OCRKey(ctx context.Context) (string, error)
}

type OCRSpaceClient struct {
	BaseURL string
	keys    KeySource
	client  *http.Client
}

func NewOCRSpaceClient(keys KeySource) *OCRSpaceClient {
	return &OCRSpaceClient{
		BaseURL: DefaultOCRSpaceURL,
		keys:    keys,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

func (c *OCRSpaceClient) ExtractText(ctx context.Context, filename string, image []byte) (string, error) {
	key, err := c.keys.OCRKey(ctx)
	if err != nil {
		return "", fmt.Errorf("load OCR key: %w", err)
	}
	if key == "" {
		return "", ErrMissingAPIKey
	}

	body, contentType, err := ocrSpaceForm(key, filename, image)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR API returned status %d", resp.StatusCode)
	}

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse OCR response: %w", err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("OCR processing error: %s", firstMessage(parsed.ErrorMessage))
	}
	if len(parsed.ParsedResults) == 0 {
		return "", fmt.Errorf("no parsed results in OCR response")
	}

	return parsed.ParsedResults[0].ParsedText, nil
}

func ocrSpaceForm(key, filename string, image []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := []struct{ name, value string }{
		{"apikey", key},
		{"language", "eng"},
		{"isTable", "true"},
		{"detectOrientation", "true"},
		{"scale", "true"},
		{"OCREngine", "2"},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// firstMessage reads ErrorMessage, which the API sends as a string or a
// list of strings.
func firstMessage(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	return "unknown error"
}
