package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"messenger_go/internal/domain"
)

const bridgeChannelPrefix = "chat:"

// bridgeEvent is the payload exchanged between instances over Redis pub/sub.
// Origin lets an instance skip envelopes it published itself.
type bridgeEvent struct {
	Origin   string          `json:"origin"`
	ChatID   uuid.UUID       `json:"chat_id"`
	Envelope domain.Envelope `json:"envelope"`
}

// RedisBridge extends the local hub across instances: every local broadcast is
// also published to Redis, and a pattern subscriber replays envelopes arriving
// from other instances into the local hub.
type RedisBridge struct {
	hub        *Hub
	rdb        *redis.Client
	instanceID string
	log        *zap.Logger
}

func NewRedisBridge(hub *Hub, rdb *redis.Client, log *zap.Logger) *RedisBridge {
	return &RedisBridge{
		hub:        hub,
		rdb:        rdb,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

// Broadcast delivers locally first, then publishes for the other instances.
// A publish failure is logged and otherwise ignored; local delivery stands.
func (b *RedisBridge) Broadcast(chatID uuid.UUID, env domain.Envelope) {
	b.hub.Broadcast(chatID, env)

	data, err := json.Marshal(bridgeEvent{
		Origin:   b.instanceID,
		ChatID:   chatID,
		Envelope: env,
	})
	if err != nil {
		b.log.Error("marshal bridge event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := b.rdb.Publish(ctx, bridgeChannelPrefix+chatID.String(), data).Err(); err != nil {
		b.log.Warn("publish bridge event", zap.String("chat_id", chatID.String()), zap.Error(err))
	}
}

// Run consumes remote envelopes until ctx is cancelled, reconnecting with
// exponential backoff when the subscription drops.
func (b *RedisBridge) Run(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := b.consume(ctx); err != nil && ctx.Err() == nil {
			b.log.Warn("bridge subscriber error", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
			continue
		}
		backoff = time.Second
	}
}

func (b *RedisBridge) consume(ctx context.Context) error {
	pubsub := b.rdb.PSubscribe(ctx, bridgeChannelPrefix+"*")
	defer pubsub.Close()

	b.log.Info("bridge subscriber started", zap.String("pattern", bridgeChannelPrefix+"*"))

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}

		var event bridgeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			b.log.Warn("unmarshal bridge event", zap.Error(err))
			continue
		}
		if event.Origin == b.instanceID {
			continue
		}
		b.hub.Broadcast(event.ChatID, event.Envelope)
	}
}
