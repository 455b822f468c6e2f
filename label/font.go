package label

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// loadFace parses a TrueType/OpenType file at the given pixel size.
func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFace(data, size)
}

func parseFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// fontFace loads the configured font, falling back to the embedded Go Mono
// face when it cannot be read. The bool result reports the fallback.
func fontFace(path string, size float64, logger *zap.Logger) (font.Face, bool, error) {
	if path != "" {
		face, err := loadFace(path, size)
		if err == nil {
			return face, false, nil
		}
		logger.Warn("Could not load font, using default font",
			zap.String("font", path), zap.Error(err))
	}

	face, err := parseFace(gomono.TTF, size)
	if err != nil {
		return nil, true, fmt.Errorf("load default font: %w", err)
	}
	return face, true, nil
}
