package mqtt

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_DisabledWithoutHost(t *testing.T) {
	c, err := New(Config{}, "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, c.IsEnabled())

	assert.NoError(t, c.Connect())
	assert.NoError(t, c.Publish("x", []byte("y")))
	c.LabelPrinted("labels/A0101_A0102.png")
	c.RackGenerated("A", 3)
	c.Disconnect()
}

func TestNew_RequiresClientID(t *testing.T) {
	_, err := New(Config{Host: "broker.local"}, "", zap.NewNop())
	assert.Error(t, err)
}

func TestNew_BadCACert(t *testing.T) {
	_, err := New(Config{Host: "broker.local", CACert: filepath.Join(t.TempDir(), "ca.pem")}, "station1", zap.NewNop())
	assert.Error(t, err)
}

func TestNew_Enabled(t *testing.T) {
	c, err := New(Config{Host: "broker.local"}, "station1", zap.NewNop())
	require.NoError(t, err)
	assert.True(t, c.IsEnabled())
	assert.Equal(t, "binlabels/status/station1/printed", c.PrintedTopic())
	assert.Equal(t, "binlabels/status/station1/generated", c.GeneratedTopic())
}

func TestMessages(t *testing.T) {
	b, err := json.Marshal(PrintedMessage{Label: "A0101_A0102.png", Path: "labels/A0101_A0102.png"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"A0101_A0102.png","path":"labels/A0101_A0102.png"}`, string(b))

	b, err = json.Marshal(GeneratedMessage{Rack: "A", Files: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rack":"A","files":3}`, string(b))
}
