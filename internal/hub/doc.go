// Package hub tracks live whiteboard connections and fans events out to them.
//
// A Registry groups connections into rooms keyed by whiteboard id. A Broadcaster
// delivers one encoded event to every member of a room except an optional
// excluded connection or user. Router is the in-process Broadcaster; RedisRouter
// publishes through Redis so rooms spanning several instances still fan out.
//
// Delivery is at-most-once. Each connection owns a bounded outbound queue and an
// event that does not fit is dropped for that connection only. Events broadcast to
// the same room reach every recipient in the order Broadcast was called.
package hub
