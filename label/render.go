package label

import (
	"image"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"binlabels/bin"
)

// Config holds label geometry and font settings.
type Config struct {
	Width     int     `yaml:"width"`      // full canvas width, both labels
	Height    int     `yaml:"height"`     // canvas height
	Font      string  `yaml:"font"`       // path to a TTF/OTF file
	FontSize  float64 `yaml:"font_size"`  // in pixels
	LineWidth float64 `yaml:"line_width"` // cut guide thickness
}

// Defaults for a 62mm Brother continuous roll.
const (
	DefaultWidth     = 696
	DefaultHeight    = 75
	DefaultFont      = "font/NotoSansMono-VariableFont_wdth,wght.ttf"
	DefaultFontSize  = 40
	DefaultLineWidth = 2
)

// WithDefaults fills zero fields with the defaults.
func (c Config) WithDefaults() Config {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Font == "" {
		c.Font = DefaultFont
	}
	if c.FontSize == 0 {
		c.FontSize = DefaultFontSize
	}
	if c.LineWidth == 0 {
		c.LineWidth = DefaultLineWidth
	}
	return c
}

// Renderer draws label pairs onto fixed size canvases.
// Not safe for concurrent use.
type Renderer struct {
	cfg      Config
	face     font.Face
	fallback bool
}

// NewRenderer loads the font and prepares a renderer. A missing or
// unreadable font is not an error: the default face is used and a warning
// is logged.
func NewRenderer(cfg Config, logger *zap.Logger) (*Renderer, error) {
	cfg = cfg.WithDefaults()
	face, fallback, err := fontFace(cfg.Font, cfg.FontSize, logger)
	if err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg, face: face, fallback: fallback}, nil
}

// Fallback reports whether the default font is in use.
func (r *Renderer) Fallback() bool {
	return r.fallback
}

// Half returns the width of one label.
func (r *Renderer) Half() int {
	return r.cfg.Width / 2
}

// Render draws the pair, one id centered in each half, with a cut line
// at the midpoint. An unpaired label leaves the right half blank.
func (r *Renderer) Render(pair bin.Pair) image.Image {
	w, h := r.cfg.Width, r.cfg.Height
	half := r.Half()

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(r.face)

	for i, id := range pair.IDs() {
		r.drawCentered(dc, id.String(), i*half, half, h)
	}

	dc.SetLineWidth(r.cfg.LineWidth)
	dc.DrawLine(float64(half), 0, float64(half), float64(h))
	dc.Stroke()

	return dc.Image()
}

// drawCentered centers the ink bounds of s in the box [left, left+width) x [0, height).
func (r *Renderer) drawCentered(dc *gg.Context, s string, left, width, height int) {
	b, _ := font.BoundString(r.face, s)
	minX := float64(b.Min.X) / 64
	minY := float64(b.Min.Y) / 64
	tw := float64(b.Max.X-b.Min.X) / 64
	th := float64(b.Max.Y-b.Min.Y) / 64

	// DrawString positions the baseline, so shift by the bounds origin.
	x := float64(left) + (float64(width)-tw)/2 - minX
	y := (float64(height)-th)/2 - minY
	dc.DrawString(s, x, y)
}
