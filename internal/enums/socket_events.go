package enums

// Event types originated by the server. Every other type is relayed as-is.
const (
	SOCKET_EVENT_USER_JOINED     = "user_joined"
	SOCKET_EVENT_USER_LEFT       = "user_left"
	SOCKET_EVENT_ONLINE_USERS    = "online_users"
	SOCKET_EVENT_OBJECT_LOCKED   = "object_locked"
	SOCKET_EVENT_OBJECT_UNLOCKED = "object_unlocked"
)
