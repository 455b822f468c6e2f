package printer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Command prints by running the brother_ql CLI once per label. Success is
// judged by the exit status alone.
type Command struct {
	name      string
	backend   string
	model     string
	device    string
	labelType string
	logger    *zap.Logger
}

// NewCommand creates a brother_ql printer, filling unset fields with the
// defaults.
func NewCommand(cfg Config, logger *zap.Logger) *Command {
	c := &Command{
		name:      cfg.Command,
		backend:   cfg.Backend,
		model:     cfg.Model,
		device:    cfg.Device,
		labelType: cfg.LabelType,
		logger:    logger,
	}
	if c.name == "" {
		c.name = DefaultCommand
	}
	if c.backend == "" {
		c.backend = DefaultBackend
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.device == "" {
		c.device = DefaultDevice
	}
	if c.labelType == "" {
		c.labelType = DefaultLabelType
	}
	return c
}

// Args returns the command line arguments for printing path.
func (c *Command) Args(path string) []string {
	return []string{
		"-b", c.backend,
		"-m", c.model,
		"-p", c.device,
		"print",
		"-l", c.labelType,
		path,
	}
}

// Print implements Printer.Print.
func (c *Command) Print(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, c.name, c.Args(path)...)
	c.logger.Debug("Running print command", zap.String("cmd", cmd.String()))

	out, err := cmd.CombinedOutput()
	if out = bytes.TrimSpace(out); len(out) > 0 {
		c.logger.Info("Printer output", zap.ByteString("output", out))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

// Close implements Printer.Close.
func (c *Command) Close() error {
	return nil
}
