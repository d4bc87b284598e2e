package ocr

import (
	"context"
	"fmt"
)

// Engine reads the text out of a menu image.
type Engine interface {
	ExtractText(ctx context.Context, filename string, image []byte) (string, error)
}

// Engine names accepted by NewEngine.
const (
	EngineOCRSpace  = "ocrspace"
	EngineTesseract = "tesseract"
)

// NewEngine builds the named engine. An empty name means OCR.space.
func NewEngine(name string, keys KeySource, tesseractBinary string) (Engine, error) {
	switch name {
	case "", EngineOCRSpace:
		return NewOCRSpaceClient(keys), nil
	case EngineTesseract:
		return NewTesseract(tesseractBinary), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", name)
	}
}
