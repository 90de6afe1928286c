package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/rueidis"
)

// ValkeyConfig configures the Valkey snapshot store
type ValkeyConfig struct {
	Enabled  bool
	Addr     string
	Password string
	TTL      time.Duration
}

// ValkeyStore keeps snapshots in Valkey with an expiry
type ValkeyStore struct {
	client rueidis.Client
	ttl    time.Duration
}

// NewValkeyStore connects to Valkey and verifies the connection
func NewValkeyStore(cfg ValkeyConfig) (*ValkeyStore, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:      []string{cfg.Addr},
		Password:         cfg.Password,
		ConnWriteTimeout: 2 * time.Second,
		DisableCache:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	slog.Info("Connected to Valkey", "addr", cfg.Addr, "snapshot_ttl", cfg.TTL.String())

	return &ValkeyStore{client: client, ttl: cfg.TTL}, nil
}

func (s *ValkeyStore) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	cmd := s.client.B().Set().Key(Key(sessionID)).Value(rueidis.BinaryString(payload))
	if s.ttl > 0 {
		err = s.client.Do(ctx, cmd.ExSeconds(int64(s.ttl.Seconds())).Build()).Error()
	} else {
		err = s.client.Do(ctx, cmd.Build()).Error()
	}
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(Key(sessionID)).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(Key(sessionID)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Ping checks the Valkey connection
func (s *ValkeyStore) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

// Close releases the Valkey connection
func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}
