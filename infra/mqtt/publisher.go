package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/voltsched/greencharge/core/schedule"
	"github.com/voltsched/greencharge/infra/logger"
)

// Publisher delivers computed charging plans to chargers.
type Publisher interface {
	PublishPlan(vehicleID string, plan schedule.Plan) error
	Close()
}

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	Retain      bool   `json:"retain"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "greencharge-" + uuid.NewString()[:8]
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "greencharge"
	}
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

// PahoPublisher publishes plans as retained JSON messages so a charger that
// reconnects still receives its latest plan.
type PahoPublisher struct {
	cli paho.Client
	cfg Config
	log logger.Logger
}

// NewPahoPublisher connects to the MQTT broker.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	log := logger.New("mqtt-publisher")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoPublisher{cli: cli, cfg: cfg, log: log}, nil
}

// PublishPlan sends the plan on <prefix>/<vehicle>/plan.
func (p *PahoPublisher) PublishPlan(vehicleID string, plan schedule.Plan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan %s: %w", plan.ID, err)
	}
	topic := fmt.Sprintf("%s/%s/plan", p.cfg.TopicPrefix, vehicleID)
	token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish plan %s: %w", plan.ID, token.Error())
	}
	p.log.Debugf("published plan %s to %s", plan.ID, topic)
	return nil
}

// Close disconnects from the broker, allowing 250ms for in-flight messages.
func (p *PahoPublisher) Close() {
	p.cli.Disconnect(250)
}

// MockPublisher records published plans for tests.
type MockPublisher struct {
	mu    sync.Mutex
	Plans map[string]schedule.Plan
	Fail  bool
}

// NewMockPublisher creates an empty MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Plans: make(map[string]schedule.Plan)}
}

// PublishPlan stores the plan or fails when configured to.
func (m *MockPublisher) PublishPlan(vehicleID string, plan schedule.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Plans[vehicleID] = plan
	return nil
}

// Close is a no-op.
func (m *MockPublisher) Close() {}
