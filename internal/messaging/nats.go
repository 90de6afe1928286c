package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/stan.go"
)

// ErrDisabled is returned by subscriptions when messaging is not configured
var ErrDisabled = errors.New("messaging is disabled")

type NATSClient struct {
	conn stan.Conn
}

type Config struct {
	Enabled   bool
	URL       string
	ClusterID string
	ClientID  string
}

// NewNATSClient connects to NATS Streaming. When cfg.Enabled is false the
// returned client drops published messages.
func NewNATSClient(cfg Config) (*NATSClient, error) {
	if !cfg.Enabled {
		slog.Info("NATS Streaming disabled, lifecycle events will not be published")
		return &NATSClient{}, nil
	}

	// Unique client ID so several replicas can share a cluster
	clientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.New().String()[:8])

	conn, err := stan.Connect(cfg.ClusterID, clientID,
		stan.NatsURL(cfg.URL),
		stan.Pings(10, 5),
		stan.SetConnectionLostHandler(func(_ stan.Conn, reason error) {
			slog.Error("NATS Streaming connection lost", "error", reason)
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS Streaming: %w", err)
	}

	slog.Info("Connected to NATS Streaming",
		"url", cfg.URL, "cluster", cfg.ClusterID, "client", clientID)

	return &NATSClient{conn: conn}, nil
}

// Enabled reports whether the client holds a live connection
func (nc *NATSClient) Enabled() bool {
	return nc.conn != nil
}

// Connected reports whether the underlying NATS connection is up
func (nc *NATSClient) Connected() bool {
	if nc.conn == nil {
		return false
	}
	nats := nc.conn.NatsConn()
	return nats != nil && nats.IsConnected()
}

func (nc *NATSClient) Publish(subject string, data interface{}) error {
	if nc.conn == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := nc.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}

	slog.Debug("Published message", "subject", subject)
	return nil
}

func (nc *NATSClient) Subscribe(subject string, handler stan.MsgHandler) (stan.Subscription, error) {
	if nc.conn == nil {
		return nil, ErrDisabled
	}

	sub, err := nc.conn.Subscribe(subject, handler, stan.DurableName(subject+"-durable"))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	slog.Info("Subscribed to subject", "subject", subject)
	return sub, nil
}

// SubscribeQueue subscribes with manual acks; handlers must call msg.Ack on success
func (nc *NATSClient) SubscribeQueue(subject, queue string, handler stan.MsgHandler) (stan.Subscription, error) {
	if nc.conn == nil {
		return nil, ErrDisabled
	}

	sub, err := nc.conn.QueueSubscribe(subject, queue, handler,
		stan.DurableName(subject+"-"+queue+"-durable"),
		stan.SetManualAckMode(),
		stan.AckWait(30*time.Second),
		stan.MaxInflight(1))
	if err != nil {
		return nil, fmt.Errorf("failed to queue subscribe to subject %s: %w", subject, err)
	}

	slog.Info("Subscribed to subject", "subject", subject, "queue", queue)
	return sub, nil
}

func (nc *NATSClient) Close() error {
	if nc.conn != nil {
		return nc.conn.Close()
	}
	return nil
}
