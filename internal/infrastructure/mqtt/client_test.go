package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration.
// Broker-backed tests live in integration_test.go.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "daylight-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestConnectDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on empty client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}
	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	client := &Client{}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestPublishValidation(t *testing.T) {
	client := &Client{cfg: testConfig()}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "daylight/test", []byte("x"), 3, ErrInvalidQoS},
		{"oversized payload", "daylight/test", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"valid but disconnected", "daylight/test", []byte("x"), 1, ErrNotConnected},
		{"nil payload disconnected", "daylight/test", nil, 0, ErrNotConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublishJSON_Unencodable(t *testing.T) {
	client := &Client{cfg: testConfig()}
	err := client.PublishJSON(Topics{}.StateSchedule(), map[string]any{"bad": make(chan int)})
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("PublishJSON() error = %v, want ErrPublishFailed", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := &Client{cfg: testConfig(), subscriptions: map[string]subscription{}}
	handler := func(string, []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{"empty topic", "", 1, handler, ErrInvalidTopic},
		{"invalid qos", "daylight/test", 3, handler, ErrInvalidQoS},
		{"nil handler", "daylight/test", 1, nil, ErrSubscribeFailed},
		{"disconnected", "daylight/test", 1, handler, ErrNotConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Subscribe(tt.topic, tt.qos, tt.handler)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if client.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0 after failed subscribes", client.SubscriptionCount())
	}
	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(\"\") error = %v, want ErrInvalidTopic", err)
	}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}
	tests := []struct {
		got  string
		want string
	}{
		{topics.StateAppearance(), "daylight/state/appearance"},
		{topics.StateSchedule(), "daylight/state/schedule"},
		{topics.StateNightMode(), "daylight/state/nightmode"},
		{topics.SystemStatus(), "daylight/system/status"},
		{topics.CommandNightMode(), "daylight/command/nightmode"},
		{topics.CommandRegenerate(), "daylight/command/regenerate"},
		{topics.AllCommands(), "daylight/command/+"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("topic = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestDecodeNightMode(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
		wantErr bool
	}{
		{`{"enabled":true}`, true, false},
		{`{"enabled":false}`, false, false},
		{` {"enabled": true} `, true, false},
		{`{}`, false, true},
		{`{"enabled":`, false, true},
		{"on", true, false},
		{"OFF", false, false},
		{`"true"`, true, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := DecodeNightMode([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeNightMode(%q) error = %v, wantErr %v", tt.payload, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("error = %v, want ErrInvalidPayload", err)
			}
			if got != tt.want {
				t.Errorf("DecodeNightMode(%q) = %v, want %v", tt.payload, got, tt.want)
			}
		})
	}
}

func TestStatusPayload(t *testing.T) {
	var p StatusPayload
	if err := json.Unmarshal([]byte(statusPayload("offline", "daylight-test", "graceful_shutdown")), &p); err != nil {
		t.Fatalf("statusPayload is not JSON: %v", err)
	}
	if p.Status != "offline" || p.ClientID != "daylight-test" || p.Reason != "graceful_shutdown" || p.Timestamp == "" {
		t.Errorf("payload = %+v", p)
	}

	online := statusPayload("online", "daylight-test", "")
	if strings.Contains(online, "reason") {
		t.Errorf("online payload should omit reason: %s", online)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Auth.Username = "me"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg.Broker.ClientID)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want ssl://127.0.0.1:1883", opts.Servers)
	}
	if opts.ClientID != "daylight-test" || opts.Username != "me" || opts.Password != "secret" {
		t.Errorf("identity = %q/%q/%q", opts.ClientID, opts.Username, opts.Password)
	}
	if !opts.WillEnabled || opts.WillTopic != "daylight/system/status" || !opts.WillRetained {
		t.Errorf("LWT = enabled:%v topic:%q retained:%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig should be set when TLS is enabled")
	}
}

type mockLogger struct {
	errors []string
	warns  []string
}

func (l *mockLogger) Error(msg string, _ ...any) { l.errors = append(l.errors, msg) }
func (l *mockLogger) Warn(msg string, _ ...any)  { l.warns = append(l.warns, msg) }

type fakeMessage struct {
	pahomqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

func TestWrapHandler(t *testing.T) {
	log := &mockLogger{}
	c := &Client{}
	c.SetLogger(log)

	msg := fakeMessage{topic: "daylight/command/nightmode", payload: []byte("on")}

	c.wrapHandler(func(string, []byte) error { return errors.New("boom") })(nil, msg)
	if len(log.warns) != 1 {
		t.Errorf("expected handler error to be logged as warning, got %v", log.warns)
	}

	c.wrapHandler(func(string, []byte) error { panic("bad handler") })(nil, msg)
	if len(log.errors) != 1 {
		t.Errorf("expected panic to be recovered and logged, got %v", log.errors)
	}

	var gotTopic, gotPayload string
	c.wrapHandler(func(topic string, payload []byte) error {
		gotTopic, gotPayload = topic, string(payload)
		return nil
	})(nil, msg)
	if gotTopic != msg.topic || gotPayload != "on" {
		t.Errorf("handler got %q/%q", gotTopic, gotPayload)
	}
}
