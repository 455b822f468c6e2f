package label

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"binlabels/bin"
)

// Generator writes rendered label images into a directory.
type Generator struct {
	dir      string
	renderer *Renderer
	logger   *zap.Logger
}

// NewGenerator creates a generator writing into dir.
func NewGenerator(dir string, renderer *Renderer, logger *zap.Logger) *Generator {
	return &Generator{
		dir:      dir,
		renderer: renderer,
		logger:   logger,
	}
}

// Dir returns the output directory.
func (g *Generator) Dir() string {
	return g.dir
}

// Reset removes the output directory and everything in it, then recreates
// it empty.
func (g *Generator) Reset() error {
	clean := filepath.Clean(g.dir)
	if g.dir == "" || clean == "." || clean == string(filepath.Separator) {
		return fmt.Errorf("refusing to reset output directory %q", g.dir)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("remove %s: %w", clean, err)
	}
	if err := os.MkdirAll(clean, 0755); err != nil {
		return fmt.Errorf("create %s: %w", clean, err)
	}
	return nil
}

// Run resets the output directory and writes one PNG per pair of bins in
// the rack. It returns the written paths in generation order.
func (g *Generator) Run(ctx context.Context, rack bin.Rack) ([]string, error) {
	if err := rack.Validate(); err != nil {
		return nil, err
	}
	if err := g.Reset(); err != nil {
		return nil, err
	}

	var (
		files  []string
		pairer bin.Pairer
	)
	for _, id := range rack.IDs() {
		pair, ok := pairer.Add(id)
		if !ok {
			continue
		}
		path, err := g.write(ctx, pair)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if pair, ok := pairer.Flush(); ok {
		path, err := g.write(ctx, pair)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func (g *Generator) write(ctx context.Context, pair bin.Pair) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(g.dir, pair.Filename())
	if err := gg.SavePNG(path, g.renderer.Render(pair)); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	g.logger.Info("Generated label", zap.String("file", path))
	return path, nil
}
