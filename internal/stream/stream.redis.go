// FilePath: internal/stream/stream.redis.go
package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/medwatch/vitalhub/internal/models"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// RedisBridge mirrors broadcasts over a Redis pub/sub channel so that
// observers connected to other instances see the same live feed. It
// wraps the local hub: Broadcast fans out locally first, then
// publishes for the rest of the fleet.
type RedisBridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
	origin  string
}

type bridgeEnvelope struct {
	Origin  string         `json:"origin"`
	Reading models.Reading `json:"reading"`
}

func NewRedisBridge(client *redis.Client, hub *Hub, channel string) *RedisBridge {
	return &RedisBridge{
		client:  client,
		hub:     hub,
		channel: channel,
		origin:  nuts.NID("hub", 10),
	}
}

// Broadcast delivers locally and publishes to the fleet. Publish
// failures are contained; the local fan-out has already happened.
func (b *RedisBridge) Broadcast(reading models.Reading) {
	b.hub.Broadcast(reading)

	payload, err := json.Marshal(bridgeEnvelope{Origin: b.origin, Reading: reading})
	if err != nil {
		nuts.L.Errorf("[RedisBridge] Failed to encode reading: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
			nuts.L.Errorf("[RedisBridge] Publish failed: %v", err)
		}
	}()
}

// Run subscribes to the channel and re-broadcasts readings published
// by other instances to the local hub. Blocks until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	nuts.L.Infof("[RedisBridge] Subscribed to %s", b.channel)
	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var envelope bridgeEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				nuts.L.Warnf("[RedisBridge] Dropping malformed message: %v", err)
				continue
			}
			if envelope.Origin == b.origin {
				continue
			}
			b.hub.Broadcast(envelope.Reading)
		}
	}
}
