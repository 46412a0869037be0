package hub

import (
	"context"
	"encoding/json"
	"sync"

	"collabBoard/internal/logging"

	"github.com/redis/go-redis/v9"
)

const publishStripes = 64

type envelope struct {
	RoomID  uint            `json:"room_id"`
	Exclude Exclude         `json:"exclude"`
	Event   json.RawMessage `json:"event"`
}

// RedisRouter publishes every broadcast on one Redis channel. Each instance
// subscribes to that channel and delivers to its own members through a local
// Router, so a room may span several instances.
type RedisRouter struct {
	client  *redis.Client
	channel string
	local   *Router

	// Publishes to the same room are serialized so Redis sees them in call order.
	stripes [publishStripes]sync.Mutex

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

func NewRedisRouter(client *redis.Client, channel string, local *Router) *RedisRouter {
	return &RedisRouter{
		client:  client,
		channel: channel,
		local:   local,
	}
}

func (rr *RedisRouter) Broadcast(ctx context.Context, roomID uint, event any, exclude Exclude) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(envelope{RoomID: roomID, Exclude: exclude, Event: payload})
	if err != nil {
		return err
	}

	lock := &rr.stripes[roomID%publishStripes]
	lock.Lock()
	defer lock.Unlock()
	if err := rr.client.Publish(ctx, rr.channel, msg).Err(); err != nil {
		eventsPublished.WithLabelValues("error").Inc()
		return err
	}
	eventsPublished.WithLabelValues("ok").Inc()
	return nil
}

// Start subscribes to the channel and returns once the subscription is
// confirmed. Delivery runs in the background until ctx ends or Close is called.
func (rr *RedisRouter) Start(ctx context.Context) error {
	pubsub := rr.client.Subscribe(ctx, rr.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}

	rr.mu.Lock()
	rr.pubsub = pubsub
	rr.done = make(chan struct{})
	rr.mu.Unlock()

	go rr.run(ctx, pubsub.Channel(), rr.done)
	logging.Info().Str("channel", rr.channel).Msg("subscribed to realtime channel")
	return nil
}

func (rr *RedisRouter) Close() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if rr.pubsub == nil {
		return nil
	}
	err := rr.pubsub.Close()
	<-rr.done
	rr.pubsub = nil
	return err
}

func (rr *RedisRouter) run(ctx context.Context, ch <-chan *redis.Message, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logging.Error().Err(err).Msg("dropping malformed realtime envelope")
				continue
			}
			rr.local.Deliver(env.RoomID, env.Event, env.Exclude)
		}
	}
}
