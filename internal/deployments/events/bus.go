package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "deploy:events:" // deploy:events:{owner_address}
	KindRecorded  = "project.recorded"
)

var ErrStreamingDisabled = errors.New("event streaming is not configured")

// Event is published after a project row is recorded.
type Event struct {
	Kind       string         `json:"event"`
	Project    domain.Project `json:"project"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Bus publishes deployment events and lets clients follow an owner's stream.
type Bus interface {
	Publish(ctx context.Context, p domain.Project) error
	Subscribe(ctx context.Context, owner string) (<-chan Event, func(), error)
}

// Channel returns the pub/sub channel for an owner address.
func Channel(owner string) string {
	return fmt.Sprintf("%s%s", channelPrefix, owner)
}

// RedisBus uses Redis pub/sub.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, p domain.Project) error {
	data, err := json.Marshal(Event{Kind: KindRecorded, Project: p, OccurredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, Channel(p.OwnerAddress), data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe follows the owner's channel until ctx ends or the returned close
// func is called. Malformed payloads are skipped.
func (b *RedisBus) Subscribe(ctx context.Context, owner string) (<-chan Event, func(), error) {
	sub := b.client.Subscribe(ctx, Channel(owner))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }, nil
}

// NoopBus drops events; used when Redis is not configured.
type NoopBus struct{}

func NewNoopBus() *NoopBus { return &NoopBus{} }

func (NoopBus) Publish(context.Context, domain.Project) error { return nil }

func (NoopBus) Subscribe(context.Context, string) (<-chan Event, func(), error) {
	return nil, nil, ErrStreamingDisabled
}
