package confirm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
	"go.uber.org/zap"
)

// Serial waits for any byte from a serial push button (a microcontroller
// that writes a character per press).
type Serial struct {
	port   *serial.Port
	device string
	logger *zap.Logger
}

// NewSerial opens the serial device. Baud defaults to 9600.
func NewSerial(device string, baud int, logger *zap.Logger) (*Serial, error) {
	if device == "" {
		return nil, fmt.Errorf("serial confirm: no device configured")
	}
	if baud == 0 {
		baud = 9600
	}
	c := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: time.Second,
	}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}

	logger.Info("Opened confirm device", zap.String("device", device), zap.Int("baud", baud))
	return &Serial{port: port, device: device, logger: logger}, nil
}

// Confirm implements Confirmer.Confirm.
func (s *Serial) Confirm(ctx context.Context, prompt string) error {
	if prompt != "" {
		s.logger.Info(prompt)
	}

	// drop presses made while the label was printing
	if err := s.port.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", s.device, err)
	}

	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := s.port.Read(buf)
		if n > 0 {
			return nil
		}
		// A read timeout surfaces as EOF; keep waiting.
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read %s: %w", s.device, err)
		}
	}
}

// Close implements Confirmer.Close.
func (s *Serial) Close() error {
	return s.port.Close()
}
