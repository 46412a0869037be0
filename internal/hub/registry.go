package hub

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Sender is the outbound side of one connection. Enqueue must never block; it
// reports false when the message could not be queued.
type Sender interface {
	Enqueue(msg []byte) bool
}

type Member struct {
	ConnectionID string
	RoomID       uint
	UserID       uint
	Sender       Sender
}

type Registry interface {
	// Register adds a connection to a room. A user may hold several connections
	// to the same room; each gets its own entry.
	Register(roomID, userID uint, sender Sender) Member
	// Unregister removes a connection. Unknown ids are a no-op.
	Unregister(connectionID string) (Member, bool)
	Members(roomID uint) []Member
	OnlineUserIDs(roomID uint) []uint
	// Each calls fn for every member while holding the room lock, so no
	// register, unregister or other Each on the same room runs concurrently.
	Each(roomID uint, fn func(Member))
	RoomCount() int
	ConnectionCount() int
}

type room struct {
	mu      sync.Mutex
	members map[string]Member
	// dead is set once the room has been emptied and is about to leave the map.
	dead bool
}

type MemoryRegistry struct {
	mu    sync.RWMutex
	rooms map[uint]*room
	// conns maps connection id to room id.
	conns sync.Map
	count atomic.Int64
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		rooms: make(map[uint]*room),
	}
}

func (r *MemoryRegistry) Register(roomID, userID uint, sender Sender) Member {
	m := Member{
		ConnectionID: uuid.NewString(),
		RoomID:       roomID,
		UserID:       userID,
		Sender:       sender,
	}

	for {
		rm := r.getOrCreateRoom(roomID)
		rm.mu.Lock()
		if rm.dead {
			// Lost a race with the last member leaving; try again with a fresh room.
			rm.mu.Unlock()
			r.dropRoom(roomID, rm)
			continue
		}
		rm.members[m.ConnectionID] = m
		r.conns.Store(m.ConnectionID, roomID)
		rm.mu.Unlock()
		break
	}

	r.count.Add(1)
	connectionsGauge.Inc()
	return m
}

func (r *MemoryRegistry) Unregister(connectionID string) (Member, bool) {
	v, ok := r.conns.LoadAndDelete(connectionID)
	if !ok {
		return Member{}, false
	}
	roomID := v.(uint)

	r.mu.RLock()
	rm, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return Member{}, false
	}

	rm.mu.Lock()
	m, ok := rm.members[connectionID]
	delete(rm.members, connectionID)
	empty := len(rm.members) == 0
	if empty {
		rm.dead = true
	}
	rm.mu.Unlock()

	if empty {
		r.dropRoom(roomID, rm)
	}

	if ok {
		r.count.Add(-1)
		connectionsGauge.Dec()
	}
	return m, ok
}

func (r *MemoryRegistry) Members(roomID uint) []Member {
	var members []Member
	r.Each(roomID, func(m Member) {
		members = append(members, m)
	})
	return members
}

func (r *MemoryRegistry) OnlineUserIDs(roomID uint) []uint {
	members := r.Members(roomID)
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func (r *MemoryRegistry) Each(roomID uint, fn func(Member)) {
	r.mu.RLock()
	rm, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	for _, m := range rm.members {
		fn(m)
	}
}

func (r *MemoryRegistry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *MemoryRegistry) ConnectionCount() int {
	return int(r.count.Load())
}

func (r *MemoryRegistry) getOrCreateRoom(roomID uint) *room {
	r.mu.RLock()
	rm, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if ok {
		return rm
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rm, ok = r.rooms[roomID]; ok {
		return rm
	}
	rm = &room{members: make(map[string]Member)}
	r.rooms[roomID] = rm
	roomsGauge.Inc()
	return rm
}

func (r *MemoryRegistry) dropRoom(roomID uint, rm *room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[roomID] == rm {
		delete(r.rooms, roomID)
		roomsGauge.Dec()
	}
}
