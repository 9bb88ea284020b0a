package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"laurelid/internal/trust"
	"laurelid/pkg/platform/sentinel"
)

const (
	// Redis key holding the fleet's last good trust list
	mirrorKey = "laurelid:trustlist:v1"

	mirrorSource = "redis_mirror"

	// DefaultMirrorRetention bounds how old a mirrored list may be when served.
	DefaultMirrorRetention = 24 * time.Hour
)

type mirroredList struct {
	FetchedAt time.Time  `json:"fetched_at"`
	Issuers   trust.List `json:"issuers"`
}

// RedisMirror writes every successfully fetched list to Redis. When the
// wrapped source fails, the mirrored copy rides along on the error as a
// fallback with its original fetch time, so kiosks sharing a Redis instance
// can cold-start during an upstream outage from a list another kiosk fetched.
// A kiosk that already holds a list keeps it.
type RedisMirror struct {
	next      trust.Source
	client    *redis.Client
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

type MirrorOption func(*RedisMirror)

func WithMirrorRetention(d time.Duration) MirrorOption {
	return func(m *RedisMirror) {
		if d > 0 {
			m.retention = d
		}
	}
}

func WithMirrorLogger(logger *slog.Logger) MirrorOption {
	return func(m *RedisMirror) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewRedisMirror wraps next with a Redis-backed last-good copy.
func NewRedisMirror(next trust.Source, client *redis.Client, opts ...MirrorOption) *RedisMirror {
	m := &RedisMirror{
		next:      next,
		client:    client,
		retention: DefaultMirrorRetention,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *RedisMirror) Fetch(ctx context.Context) (trust.List, error) {
	list, err := m.next.Fetch(ctx)
	if err == nil {
		if saveErr := m.save(ctx, list); saveErr != nil {
			m.logger.WarnContext(ctx, "failed to mirror trust list", "error", saveErr)
		}
		return list, nil
	}

	mirrored, loadErr := m.load(ctx)
	if loadErr != nil {
		if !errors.Is(loadErr, sentinel.ErrNotFound) {
			m.logger.WarnContext(ctx, "trust list mirror unavailable", "error", loadErr)
		}
		return nil, err
	}
	m.logger.WarnContext(ctx, "upstream trust list failed, offering mirrored copy",
		"error", err,
		"mirrored_at", mirrored.FetchedAt,
		"entries", len(mirrored.Issuers),
	)
	return nil, trust.WithFallback(mirrorSource, err, trust.Snapshot{
		List:      mirrored.Issuers,
		FetchedAt: mirrored.FetchedAt,
	})
}

func (m *RedisMirror) save(ctx context.Context, list trust.List) error {
	payload, err := json.Marshal(mirroredList{FetchedAt: m.now().UTC(), Issuers: list})
	if err != nil {
		return fmt.Errorf("marshal mirrored list: %w", err)
	}
	return m.client.Set(ctx, mirrorKey, payload, m.retention).Err()
}

func (m *RedisMirror) load(ctx context.Context) (*mirroredList, error) {
	raw, err := m.client.Get(ctx, mirrorKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read mirrored list: %w", err)
	}
	var mirrored mirroredList
	if err := json.Unmarshal(raw, &mirrored); err != nil {
		return nil, fmt.Errorf("decode mirrored list: %w", err)
	}
	if mirrored.Issuers == nil || m.now().Sub(mirrored.FetchedAt) > m.retention {
		return nil, sentinel.ErrExpired
	}
	return &mirrored, nil
}
