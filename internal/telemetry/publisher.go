// Package telemetry forwards changed readings snapshots to an MQTT
// broker. The publisher is optional: it is only wired when a broker
// is configured, and a publish failure never affects the session.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"soil_monitor/internal/logger"
	"soil_monitor/internal/models"
)

const (
	keepAlive      = 60 * time.Second
	pingTimeout    = 10 * time.Second
	disconnectWait = 250 // ms, paho convention
)

// Config holds MQTT connection settings.
type Config struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Topic    string // e.g. soil/readings
	Username string
	Password string
}

// Publisher pushes readings snapshots as JSON to a single topic.
type Publisher struct {
	client mqtt.Client
	topic  string
	log    *logger.Logger
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(cfg Config, log *logger.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(keepAlive)
	opts.SetPingTimeout(pingTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect mqtt broker %s: %w", cfg.Broker, token.Error())
	}
	log.Infow("telemetry connected", "broker", cfg.Broker, "topic", cfg.Topic)

	return &Publisher{client: client, topic: cfg.Topic, log: log}, nil
}

// Publish forwards one snapshot. Fire-and-forget: failures are logged
// and never propagate back to the read loop.
func (p *Publisher) Publish(r models.Readings) {
	payload, err := json.Marshal(r)
	if err != nil {
		p.log.Errorw("telemetry marshal failed", "err", err)
		return
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			p.log.Warnw("telemetry publish failed", "topic", p.topic, "err", token.Error())
		}
	}()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(disconnectWait)
}
