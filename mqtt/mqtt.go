package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Client publishes label status messages. A client built without a host
// is disabled and every method is a no-op.
type Client struct {
	client   paho.Client
	clientID string
	enabled  bool
	logger   *zap.Logger
}

// Config holds MQTT connection settings.
type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CACert     string `yaml:"ca_cert"`
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
}

// New creates a new MQTT client. Returns a disabled no-op client if host is empty.
func New(cfg Config, clientID string, logger *zap.Logger) (*Client, error) {
	c := &Client{
		clientID: clientID,
		logger:   logger,
	}

	if cfg.Host == "" {
		logger.Debug("MQTT disabled (no host configured)")
		return c, nil
	}
	if clientID == "" {
		return nil, fmt.Errorf("client_id missing in config file")
	}

	c.enabled = true

	var broker string
	var tlsConfig *tls.Config

	hasTLS := cfg.CACert != "" || cfg.ClientCert != ""

	if hasTLS {
		if cfg.Port == 0 {
			cfg.Port = 8883
		}
		broker = fmt.Sprintf("ssl://%s:%d", cfg.Host, cfg.Port)

		var err error
		tlsConfig, err = buildTLSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("build TLS config: %w", err)
		}
	} else {
		if cfg.Port == 0 {
			cfg.Port = 1883
		}
		broker = fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
		logger.Debug("MQTT using non-TLS connection")
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(60 * time.Second).
		SetConnectionLostHandler(c.handleConnectionLost)

	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}

	c.client = paho.NewClient(opts)

	named := logger.Named("paho")
	paho.ERROR = zap.NewStdLog(named)
	paho.CRITICAL = zap.NewStdLog(named)
	paho.WARN = zap.NewStdLog(named)

	return c, nil
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{}

	if cfg.CACert != "" {
		caCert, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("no certificates in %s", cfg.CACert)
		}
		tlsConfig.RootCAs = caPool
	}

	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Connect connects to the MQTT broker. No-op if disabled.
func (c *Client) Connect() error {
	if !c.enabled {
		return nil
	}

	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connect: timed out after %s", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	c.logger.Info("MQTT connected")
	return nil
}

// Disconnect disconnects from the MQTT broker. No-op if disabled.
func (c *Client) Disconnect() {
	if !c.enabled || c.client == nil {
		return
	}
	c.client.Disconnect(250)
}

// IsEnabled returns whether MQTT is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// Publish publishes a message to a topic and waits for it to be sent.
// No-op if disabled.
func (c *Client) Publish(topic string, payload []byte) error {
	if !c.enabled {
		return nil
	}
	token := c.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// PrintedTopic is where LabelPrinted publishes.
func (c *Client) PrintedTopic() string {
	return fmt.Sprintf("binlabels/status/%s/printed", c.clientID)
}

// GeneratedTopic is where RackGenerated publishes.
func (c *Client) GeneratedTopic() string {
	return fmt.Sprintf("binlabels/status/%s/generated", c.clientID)
}

// PrintedMessage is the payload published after a label prints.
type PrintedMessage struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// GeneratedMessage is the payload published after a generation run.
type GeneratedMessage struct {
	Rack  string `json:"rack"`
	Files int    `json:"files"`
}

// LabelPrinted announces a printed label. Failures are logged, not
// returned: status messages never stop a print run.
func (c *Client) LabelPrinted(path string) {
	c.publishJSON(c.PrintedTopic(), PrintedMessage{
		Label: filepath.Base(path),
		Path:  path,
	})
}

// RackGenerated announces a finished generation run.
func (c *Client) RackGenerated(rack string, files int) {
	c.publishJSON(c.GeneratedTopic(), GeneratedMessage{Rack: rack, Files: files})
}

func (c *Client) publishJSON(topic string, v any) {
	if !c.enabled {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Encode status message", zap.Error(err))
		return
	}
	if err := c.Publish(topic, payload); err != nil {
		c.logger.Warn("Publish status message", zap.String("topic", topic), zap.Error(err))
	}
}

func (c *Client) handleConnectionLost(client paho.Client, err error) {
	c.logger.Warn("MQTT connection lost", zap.Error(err))
}
