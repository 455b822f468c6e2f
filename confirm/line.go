package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// Line waits for one line of input, typically the Enter key on stdin.
type Line struct {
	in  *bufio.Reader
	out io.Writer

	// read in flight from a cancelled Confirm, picked up by the next one
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLine creates a line confirmer reading from in and prompting on out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// Confirm implements Confirmer.Confirm.
func (l *Line) Confirm(ctx context.Context, prompt string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.out != nil && prompt != "" {
		fmt.Fprint(l.out, prompt)
	}

	if l.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := l.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		l.pending = ch
	}

	var res lineResult
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-l.pending:
		l.pending = nil
	}

	line, err := res.line, res.err
	if err != nil {
		// A final line without a newline still counts.
		if errors.Is(err, io.EOF) && line != "" {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return ErrClosed
		}
		return fmt.Errorf("read confirmation: %w", err)
	}
	return nil
}

// Close implements Confirmer.Close. The underlying reader is left open.
func (l *Line) Close() error {
	return nil
}
