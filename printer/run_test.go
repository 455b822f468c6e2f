package printer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakePrinter records calls; events is shared with fakeGate to check
// interleaving.
type fakePrinter struct {
	events *[]string
	failOn string
}

func (p *fakePrinter) Print(ctx context.Context, path string) error {
	*p.events = append(*p.events, "print "+filepath.Base(path))
	if filepath.Base(path) == p.failOn {
		return errors.New("exit status 1")
	}
	return nil
}

func (p *fakePrinter) Close() error { return nil }

type fakeGate struct {
	events *[]string
	err    error
}

func (g *fakeGate) Confirm(ctx context.Context, prompt string) error {
	*g.events = append(*g.events, "confirm")
	return g.err
}

func writeLabels(t *testing.T, names ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "labels")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	return dir
}

func TestLabels_SortedFilesOnly(t *testing.T) {
	dir := writeLabels(t, "B0101_blank.png", "A0103_A0104.png", "A0101_A0102.png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old"), 0755))

	labels, err := Labels(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "A0101_A0102.png"),
		filepath.Join(dir, "A0103_A0104.png"),
		filepath.Join(dir, "B0101_blank.png"),
	}, labels)
}

func TestLabels_MissingDir(t *testing.T) {
	_, err := Labels(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNoLabels)
}

func TestRun_PrintsInOrderWithConfirmation(t *testing.T) {
	dir := writeLabels(t, "B0101_blank.png", "A0101_A0102.png")
	var events []string
	r := NewRunner(&fakePrinter{events: &events}, &fakeGate{events: &events}, zap.NewNop())

	var printed []string
	r.OnPrinted = func(path string) { printed = append(printed, filepath.Base(path)) }

	sum, err := r.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 2, Printed: 2}, sum)
	assert.Equal(t, []string{
		"print A0101_A0102.png", "confirm",
		"print B0101_blank.png", "confirm",
	}, events)
	assert.Equal(t, []string{"A0101_A0102.png", "B0101_blank.png"}, printed)
}

func TestRun_StopsOnFirstFailure(t *testing.T) {
	dir := writeLabels(t, "B0101_blank.png", "A0101_A0102.png")
	var events []string
	core, logs := observer.New(zapcore.ErrorLevel)
	r := NewRunner(&fakePrinter{events: &events, failOn: "A0101_A0102.png"}, &fakeGate{events: &events}, zap.New(core))

	sum, err := r.Run(context.Background(), dir)
	var perr *PrintError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, filepath.Join(dir, "A0101_A0102.png"), perr.Path)
	assert.Contains(t, err.Error(), "A0101_A0102.png")
	assert.Equal(t, Summary{Total: 2, Printed: 0}, sum)
	assert.Equal(t, []string{"print A0101_A0102.png"}, events, "no confirmation, no second print")
	assert.Equal(t, 1, logs.FilterMessage("Error printing label").Len())
}

func TestRun_MissingDirIsNotAnError(t *testing.T) {
	var events []string
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewRunner(&fakePrinter{events: &events}, &fakeGate{events: &events}, zap.New(core))

	sum, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "labels"))
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Empty(t, events)
	assert.Equal(t, 1, logs.FilterMessage("No labels found. Generate labels first.").Len())
}

func TestRun_GateErrorStops(t *testing.T) {
	dir := writeLabels(t, "A0101_A0102.png", "A0103_A0104.png")
	var events []string
	gateErr := errors.New("input closed")
	r := NewRunner(&fakePrinter{events: &events}, &fakeGate{events: &events, err: gateErr}, zap.NewNop())

	sum, err := r.Run(context.Background(), dir)
	assert.ErrorIs(t, err, gateErr)
	assert.Equal(t, 1, sum.Printed)
	assert.Equal(t, []string{"print A0101_A0102.png", "confirm"}, events)
}

func TestRun_EmptyDir(t *testing.T) {
	dir := writeLabels(t)
	var events []string
	r := NewRunner(&fakePrinter{events: &events}, &fakeGate{events: &events}, zap.NewNop())

	sum, err := r.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Empty(t, events)
}
