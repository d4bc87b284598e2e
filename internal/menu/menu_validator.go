package menu

import (
	"errors"
	"path/filepath"
	"strings"
)

var menuFileExt = map[string]bool{
	".csv": true,
	".txt": true,
}

var imageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
	".pdf":  true,
}

// ValidateMenuFile accepts CSV menus.
func ValidateMenuFile(filename string) error {
	return validateExt(filename, menuFileExt)
}

// ValidateImageFile accepts scanned menus the OCR engines can read.
func ValidateImageFile(filename string) error {
	return validateExt(filename, imageExt)
}

func validateExt(filename string, allowed map[string]bool) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return errors.New("file extension missing")
	}

	if !allowed[ext] {
		return errors.New("file type not allowed")
	}

	return nil
}
