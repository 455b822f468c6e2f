package confirm

import (
	"context"
	"fmt"

	"github.com/kenshaw/evdev"
	"go.uber.org/zap"
)

// Keyboard waits for Enter on an evdev input device, such as a USB foot
// pedal or keypad attached to the print station.
type Keyboard struct {
	device *evdev.Evdev
	logger *zap.Logger
}

// NewKeyboard opens the input device.
func NewKeyboard(device string, logger *zap.Logger) (*Keyboard, error) {
	if device == "" {
		return nil, fmt.Errorf("keyboard confirm: no device configured")
	}
	dev, err := evdev.OpenFile(device)
	if err != nil {
		return nil, fmt.Errorf("open evdev %s: %w", device, err)
	}

	logger.Info("Opened confirm device",
		zap.String("name", dev.Name()),
		zap.String("vendor", fmt.Sprintf("0x%04x", dev.ID().Vendor)),
		zap.String("product", fmt.Sprintf("0x%04x", dev.ID().Product)))

	return &Keyboard{device: dev, logger: logger}, nil
}

// Confirm implements Confirmer.Confirm. The prompt is logged since the
// device has no display.
func (k *Keyboard) Confirm(ctx context.Context, prompt string) error {
	if prompt != "" {
		k.logger.Info(prompt)
	}

	// Stop the poller when we return so polls don't pile up across labels.
	pctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := k.device.Poll(pctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-ch:
			if event == nil {
				return ErrClosed
			}
			if _, ok := event.Type.(evdev.KeyType); !ok {
				continue
			}
			// key down only
			if event.Value == 1 && event.Type == evdev.KeyEnter {
				return nil
			}
		}
	}
}

// Close implements Confirmer.Close.
func (k *Keyboard) Close() error {
	if k.device == nil {
		return nil
	}
	return k.device.Close()
}
