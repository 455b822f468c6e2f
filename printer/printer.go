package printer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Printer is the interface for all label printer implementations.
type Printer interface {
	// Print outputs the label image at path. It returns when the printer
	// has accepted the job or failed.
	Print(ctx context.Context, path string) error

	// Close releases any resources held by the printer.
	Close() error
}

// Config holds configuration for printer implementations.
type Config struct {
	Type      string `yaml:"type"`       // "brother_ql", "dymo", "none"
	Command   string `yaml:"command"`    // executable for brother_ql
	Backend   string `yaml:"backend"`    // brother_ql backend, e.g. "pyusb"
	Model     string `yaml:"model"`      // e.g. "QL-500"
	Device    string `yaml:"device"`     // printer identifier or lp device path
	LabelType string `yaml:"label_type"` // media, e.g. "62"
}

// Defaults for a Brother QL-500 over USB with 62mm continuous tape.
const (
	DefaultCommand   = "brother_ql"
	DefaultBackend   = "pyusb"
	DefaultModel     = "QL-500"
	DefaultDevice    = "usb://0x04f9:0x2015"
	DefaultLabelType = "62"

	DefaultDymoDevice = "/dev/usb/lp0"
)

// New creates a Printer based on the provided configuration.
func New(cfg Config, logger *zap.Logger) (Printer, error) {
	switch cfg.Type {
	case "", "brother_ql":
		return NewCommand(cfg, logger), nil
	case "dymo":
		device := cfg.Device
		if device == "" {
			device = DefaultDymoDevice
		}
		return NewDymo(device, logger), nil
	case "none":
		return &Noop{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown printer type %q", cfg.Type)
	}
}

// Noop implements Printer but only logs. Used for dry runs.
type Noop struct {
	logger *zap.Logger
}

// Print implements Printer.Print.
func (n *Noop) Print(ctx context.Context, path string) error {
	n.logger.Info("Dry run, not printing", zap.String("label", path))
	return ctx.Err()
}

// Close implements Printer.Close.
func (n *Noop) Close() error {
	return nil
}
