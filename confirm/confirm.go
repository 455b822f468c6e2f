package confirm

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
)

// ErrClosed is returned when the input ends before the operator confirms.
var ErrClosed = errors.New("confirmation input closed")

// Confirmer is the interface for operator confirmation sources.
// Implementations block until the operator confirms or ctx is cancelled.
type Confirmer interface {
	// Confirm shows prompt (where the source has a place to show it) and
	// blocks until the operator acknowledges.
	Confirm(ctx context.Context, prompt string) error

	// Close releases any resources held by the source.
	Close() error
}

// Config holds configuration for confirmation sources.
type Config struct {
	Type   string `yaml:"type"`   // "stdin", "keyboard", "serial", "pipe", "none"
	Device string `yaml:"device"` // e.g. "/dev/input/event0", "/dev/ttyUSB0", "/tmp/binlabels-confirm"
	Baud   int    `yaml:"baud"`   // baud rate for serial devices
}

// New creates a Confirmer based on the provided configuration. The stdin
// source reads lines from in and prompts on out.
func New(cfg Config, in io.Reader, out io.Writer, logger *zap.Logger) (Confirmer, error) {
	switch cfg.Type {
	case "keyboard", "pedal":
		return NewKeyboard(cfg.Device, logger)
	case "serial":
		return NewSerial(cfg.Device, cfg.Baud, logger)
	case "pipe":
		return NewPipe(cfg.Device, logger)
	case "none":
		return Noop{}, nil
	default:
		return NewLine(in, out), nil
	}
}

// Noop confirms immediately. Used for unattended runs.
type Noop struct{}

// Confirm implements Confirmer.Confirm.
func (Noop) Confirm(ctx context.Context, prompt string) error {
	return ctx.Err()
}

// Close implements Confirmer.Close.
func (Noop) Close() error {
	return nil
}
