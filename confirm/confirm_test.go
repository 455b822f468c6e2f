package confirm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLine_ConsumesOneLinePerConfirm(t *testing.T) {
	var out bytes.Buffer
	l := NewLine(strings.NewReader("\nok\n"), &out)
	ctx := context.Background()

	require.NoError(t, l.Confirm(ctx, "next? "))
	require.NoError(t, l.Confirm(ctx, "next? "))
	assert.Equal(t, "next? next? ", out.String())

	assert.ErrorIs(t, l.Confirm(ctx, "next? "), ErrClosed)
}

func TestLine_LastLineWithoutNewline(t *testing.T) {
	l := NewLine(strings.NewReader("y"), nil)
	assert.NoError(t, l.Confirm(context.Background(), "ignored"))
	assert.ErrorIs(t, l.Confirm(context.Background(), ""), ErrClosed)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestLine_ReadError(t *testing.T) {
	l := NewLine(errReader{}, nil)
	err := l.Confirm(context.Background(), "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrClosed)
}

func TestLine_Cancelled(t *testing.T) {
	var out bytes.Buffer
	l := NewLine(strings.NewReader("\n"), &out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Confirm(ctx, "prompt"), context.Canceled)
	assert.Empty(t, out.String(), "no prompt after cancel")
}

func TestLine_CancelWhileWaiting(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	l := NewLine(r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() { done <- l.Confirm(ctx, "next? ") }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Confirm still blocked after cancel")
	}

	// the interrupted read is reused, not raced by a second reader
	go w.Write([]byte("\n"))
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	assert.NoError(t, l.Confirm(ctx2, ""))
}

func TestNew(t *testing.T) {
	c, err := New(Config{}, strings.NewReader("\n"), &bytes.Buffer{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Line{}, c)

	c, err = New(Config{Type: "none"}, nil, nil, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, c.Confirm(context.Background(), "x"))
	assert.NoError(t, c.Close())

	_, err = New(Config{Type: "keyboard"}, nil, nil, zap.NewNop())
	assert.Error(t, err, "keyboard needs a device")

	_, err = New(Config{Type: "serial"}, nil, nil, zap.NewNop())
	assert.Error(t, err, "serial needs a device")
}

func TestPipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confirm")
	p, err := NewPipe(path, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	w, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.WriteString("# comment\n\nbogus\nnext\nSTOP\n")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, p.Confirm(ctx, "waiting"))
	assert.ErrorIs(t, p.Confirm(ctx, "waiting"), ErrAborted)

	short, cancelShort := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelShort()
	assert.ErrorIs(t, p.Confirm(short, ""), context.DeadlineExceeded)
}

func TestPipe_NeedsPath(t *testing.T) {
	_, err := New(Config{Type: "pipe"}, nil, nil, zap.NewNop())
	assert.Error(t, err)
}
