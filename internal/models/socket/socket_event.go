package socket

import "collabBoard/internal/enums"

// Event is a server-originated message. Client frames are never decoded into
// this type; they are relayed as raw JSON.
type Event map[string]any

func (e Event) Type() string {
	t, _ := e["type"].(string)
	return t
}

func NewUserJoinedEvent(userID uint) Event {
	return Event{"type": enums.SOCKET_EVENT_USER_JOINED, "user_id": userID}
}

func NewUserLeftEvent(userID uint) Event {
	return Event{"type": enums.SOCKET_EVENT_USER_LEFT, "user_id": userID}
}

// NewOnlineUsersEvent carries one entry per live connection, so a user with two
// tabs open appears twice.
func NewOnlineUsersEvent(userIDs []uint) Event {
	if userIDs == nil {
		userIDs = []uint{}
	}
	return Event{"type": enums.SOCKET_EVENT_ONLINE_USERS, "users": userIDs}
}

func NewObjectLockedEvent(objectID, userID uint) Event {
	return Event{"type": enums.SOCKET_EVENT_OBJECT_LOCKED, "id": objectID, "user_id": userID}
}

func NewObjectUnlockedEvent(objectID, userID uint) Event {
	return Event{"type": enums.SOCKET_EVENT_OBJECT_UNLOCKED, "id": objectID, "user_id": userID}
}
