package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// ErrAborted is returned when a remote operator asks to stop the run.
var ErrAborted = errors.New("aborted by operator")

// Pipe takes confirmations from a named pipe, so a print run can be
// driven from another terminal or script:
//
//	echo next > /tmp/binlabels-confirm
//
// Commands, one per line:
//
//	next | ok        - print the next label
//	stop | abort     - end the run
//
// Blank lines and lines starting with # are ignored.
type Pipe struct {
	path   string
	file   *os.File
	lines  chan string
	done   chan struct{}
	logger *zap.Logger
}

// NewPipe creates the named pipe at path, replacing any existing file.
func NewPipe(path string, logger *zap.Logger) (*Pipe, error) {
	if path == "" {
		return nil, fmt.Errorf("pipe confirm: no device configured")
	}

	os.Remove(path)
	if err := syscall.Mkfifo(path, 0666); err != nil {
		return nil, fmt.Errorf("create named pipe %s: %w", path, err)
	}

	// Opening read-write keeps the pipe from reporting EOF every time a
	// writer goes away, and doesn't block waiting for the first writer.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("open named pipe %s: %w", path, err)
	}

	p := &Pipe{
		path:   path,
		file:   f,
		lines:  make(chan string),
		done:   make(chan struct{}),
		logger: logger,
	}
	go p.readLoop()

	logger.Info("Confirm pipe listening", zap.String("path", path))
	return p, nil
}

func (p *Pipe) readLoop() {
	defer close(p.lines)
	scanner := bufio.NewScanner(p.file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		select {
		case p.lines <- line:
		case <-p.done:
			return
		}
	}
}

// Confirm implements Confirmer.Confirm.
func (p *Pipe) Confirm(ctx context.Context, prompt string) error {
	if prompt != "" {
		p.logger.Info(prompt, zap.String("pipe", p.path))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-p.lines:
			if !ok {
				return ErrClosed
			}
			switch strings.ToLower(strings.Fields(line)[0]) {
			case "next", "ok":
				return nil
			case "stop", "abort":
				return ErrAborted
			default:
				p.logger.Warn("Confirm pipe: unknown command", zap.String("line", line))
			}
		}
	}
}

// Close removes the pipe.
func (p *Pipe) Close() error {
	close(p.done)
	p.file.Close()
	return os.Remove(p.path)
}
