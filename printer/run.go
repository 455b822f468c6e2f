package printer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Prompt is shown after each printed label.
const Prompt = "Press Enter to print the next label..."

// ErrNoLabels is returned when the label directory does not exist.
var ErrNoLabels = errors.New("no labels found")

// PrintError is returned by Run when a label fails to print. It has
// already been logged.
type PrintError struct {
	Path string
	Err  error
}

func (e *PrintError) Error() string {
	return fmt.Sprintf("print %s: %v", e.Path, e.Err)
}

func (e *PrintError) Unwrap() error {
	return e.Err
}

// Gate blocks until the operator is ready for the next label.
type Gate interface {
	Confirm(ctx context.Context, prompt string) error
}

// Summary reports the outcome of a print run.
type Summary struct {
	Total   int // labels found
	Printed int // labels printed successfully
}

// Labels returns the files in dir in lexicographic order. Subdirectories
// are skipped.
func Labels(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w in %s", ErrNoLabels, dir)
	}
	if err != nil {
		return nil, err
	}

	// ReadDir sorts by filename.
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// Runner prints every label in a directory, one at a time.
type Runner struct {
	printer Printer
	gate    Gate
	logger  *zap.Logger

	// OnPrinted, if set, is called after each successful print.
	OnPrinted func(path string)
}

// NewRunner creates a runner.
func NewRunner(p Printer, gate Gate, logger *zap.Logger) *Runner {
	return &Runner{printer: p, gate: gate, logger: logger}
}

// Run prints the labels in dir in order, waiting at the gate after each.
// The first print failure stops the run; remaining labels are not
// attempted. A missing directory is reported and is not an error.
func (r *Runner) Run(ctx context.Context, dir string) (Summary, error) {
	var sum Summary

	labels, err := Labels(dir)
	if errors.Is(err, ErrNoLabels) {
		r.logger.Warn("No labels found. Generate labels first.", zap.String("dir", dir))
		return sum, nil
	}
	if err != nil {
		return sum, err
	}
	sum.Total = len(labels)

	for _, path := range labels {
		r.logger.Info("Printing label", zap.String("label", path))

		if err := r.printer.Print(ctx, path); err != nil {
			r.logger.Error("Error printing label", zap.String("label", path), zap.Error(err))
			return sum, &PrintError{Path: path, Err: err}
		}
		sum.Printed++
		if r.OnPrinted != nil {
			r.OnPrinted(path)
		}

		if err := r.gate.Confirm(ctx, Prompt); err != nil {
			return sum, fmt.Errorf("confirm: %w", err)
		}
	}
	return sum, nil
}
