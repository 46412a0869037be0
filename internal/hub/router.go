package hub

import (
	"context"
	"encoding/json"

	"collabBoard/internal/logging"
)

type Broadcaster interface {
	// Broadcast sends event to every member of roomID not matched by exclude.
	// event may be raw JSON ([]byte or json.RawMessage) or any value encodable
	// with encoding/json.
	Broadcast(ctx context.Context, roomID uint, event any, exclude Exclude) error
}

// Exclude names the connection or user an event must not be echoed to. The
// zero value excludes nobody.
type Exclude struct {
	ConnectionID string `json:"connection_id,omitempty"`
	UserID       uint   `json:"user_id,omitempty"`
}

func ExcludeConnection(connectionID string) Exclude {
	return Exclude{ConnectionID: connectionID}
}

func ExcludeUser(userID uint) Exclude {
	return Exclude{UserID: userID}
}

func (e Exclude) Matches(m Member) bool {
	if e.ConnectionID != "" && e.ConnectionID == m.ConnectionID {
		return true
	}
	return e.UserID != 0 && e.UserID == m.UserID
}

// Router is the in-process Broadcaster.
type Router struct {
	registry Registry
}

func NewRouter(registry Registry) *Router {
	return &Router{
		registry: registry,
	}
}

func (r *Router) Broadcast(ctx context.Context, roomID uint, event any, exclude Exclude) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	r.Deliver(roomID, payload, exclude)
	return nil
}

// Deliver queues an encoded event for every matching member and returns how many
// accepted it. Queueing happens under the room lock, which keeps per-room order.
func (r *Router) Deliver(roomID uint, payload []byte, exclude Exclude) int {
	delivered := 0
	r.registry.Each(roomID, func(m Member) {
		if exclude.Matches(m) {
			return
		}
		if !m.Sender.Enqueue(payload) {
			eventsDropped.Inc()
			logging.Warn().
				Uint("whiteboard_id", roomID).
				Uint("user_id", m.UserID).
				Str("conn_id", m.ConnectionID).
				Msg("outbound queue full, dropping event")
			return
		}
		eventsDelivered.Inc()
		delivered++
	})
	return delivered
}

func Encode(event any) ([]byte, error) {
	switch v := event.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}
