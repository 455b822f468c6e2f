package printer

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// Dymo writes raster data straight to a Dymo LabelWriter line printer
// device. Image columns become print lines, so a wide label image feeds
// lengthwise.
type Dymo struct {
	device string
	logger *zap.Logger
}

// NewDymo creates a printer writing to device, e.g. /dev/usb/lp0.
func NewDymo(device string, logger *zap.Logger) *Dymo {
	return &Dymo{device: device, logger: logger}
}

// Print implements Printer.Print.
func (d *Dymo) Print(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := gg.LoadPNG(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	f, err := os.OpenFile(d.device, os.O_WRONLY, 0)
	if err != nil {
		return err
	}

	b := img.Bounds()
	d.logger.Debug("Sending raster",
		zap.String("device", d.device), zap.Int("lines", b.Dx()), zap.Int("bytes_per_line", (b.Dy()+7)/8))

	if err := EncodeDymo(f, img); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", d.device, err)
	}
	return f.Close()
}

// Close implements Printer.Close.
func (d *Dymo) Close() error {
	return nil
}

// EncodeDymo writes img as a Dymo raster job: ESC D (bytes per line),
// ESC L (label length in lines), one SYN-prefixed line per image column,
// then ESC E to feed the label out.
//
// The LabelWriter prints the most significant bit of the first byte of a
// line as the first dot of the head. Dots are taken from the bottom image
// row upward, so the bottom row is bit 0x80 of byte 0 and row 8 from the
// bottom is 0x80 of byte 1. A pixel is printed when its red channel is at
// most half intensity.
func EncodeDymo(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bpl := (b.Dy() + 7) / 8
	lines := b.Dx()
	if bpl > 0xff || lines > 0xffff {
		return fmt.Errorf("image %dx%d too large for printer", b.Dx(), b.Dy())
	}

	bw := bufio.NewWriter(w)
	bw.Write([]byte{27, 'D', byte(bpl)})
	bw.Write([]byte{27, 'L', byte(lines >> 8), byte(lines)})

	line := make([]byte, bpl)
	for x := b.Min.X; x < b.Max.X; x++ {
		for i := range line {
			line[i] = 0
		}
		for row := 0; row < b.Dy(); row++ {
			r, _, _, _ := img.At(x, b.Max.Y-1-row).RGBA()
			if r <= 0x8000 {
				line[row/8] |= 0x80 >> (row % 8)
			}
		}
		bw.WriteByte(0x16)
		bw.Write(line)
	}

	bw.Write([]byte{27, 'E'})
	return bw.Flush()
}
