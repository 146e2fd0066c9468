// Package mqtt receives completed charging-session events published by
// charger integrations and forwards them onto the event bus.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/chargewise/chargewise/core/logger"
	"github.com/chargewise/chargewise/core/preference"
	infralogger "github.com/chargewise/chargewise/infra/logger"
	"github.com/chargewise/chargewise/internal/eventbus"
)

// Config defines the connection parameters for the session subscriber.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic is the subscription filter; the session ID is taken from the
	// second topic level, e.g. chargewise/<session_id>/completed.
	Topic string `json:"topic"`
	QoS   byte   `json:"qos"`
}

// SetDefaults applies the default topic filter.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "chargewise/+/completed"
	}
	if c.ClientID == "" {
		c.ClientID = "chargewise-" + uuid.NewString()[:8]
	}
}

// sessionPayload is the wire format chargers publish on completion.
type sessionPayload struct {
	SessionID   string    `json:"session_id"`
	StartHour   int       `json:"start_hour"`
	EnergyKWh   float64   `json:"energy_kwh"`
	Cost        float64   `json:"cost"`
	CompletedAt time.Time `json:"completed_at"`
}

// Subscriber is a subscribe-only Paho client bridging MQTT to the bus.
type Subscriber struct {
	cli   paho.Client
	topic string
	qos   byte
	bus   *eventbus.Bus
	log   logger.Logger
}

var newMQTTClient = func(opts *paho.ClientOptions) paho.Client {
	return paho.NewClient(opts)
}

// NewSubscriber connects to the broker and subscribes to the session topic.
func NewSubscriber(cfg Config, bus *eventbus.Bus) (*Subscriber, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	s := &Subscriber{
		topic: cfg.Topic,
		qos:   cfg.QoS,
		bus:   bus,
		log:   infralogger.New("mqtt-sessions"),
	}
	opts.OnConnect = func(c paho.Client) {
		if tok := c.Subscribe(s.topic, s.qos, s.handle); tok.Wait() && tok.Error() != nil {
			s.log.Errorf("subscribe %s: %v", s.topic, tok.Error())
		}
	}

	cli := newMQTTClient(opts)
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	s.cli = cli
	return s, nil
}

func (s *Subscriber) handle(_ paho.Client, msg paho.Message) {
	var p sessionPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		s.log.Warnf("discarding malformed session payload on %s: %v", msg.Topic(), err)
		return
	}
	sessionID := p.SessionID
	if sessionID == "" {
		sessionID = sessionIDFromTopic(msg.Topic())
	}
	if sessionID == "" {
		s.log.Warnf("session payload on %s has no session id", msg.Topic())
		return
	}
	rec := preference.SessionRecord{
		ID:          uuid.NewString(),
		StartHour:   p.StartHour,
		EnergyKWh:   p.EnergyKWh,
		Cost:        p.Cost,
		CompletedAt: p.CompletedAt,
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now().UTC()
	}
	s.bus.Publish(eventbus.SessionEvent{SessionID: sessionID, Record: rec})
	s.log.Debugw("session event published", map[string]any{
		"session_id": sessionID,
		"start_hour": p.StartHour,
		"energy_kwh": p.EnergyKWh,
	})
}

func sessionIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) >= 3 {
		return parts[1]
	}
	return ""
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}
