// internal/app/system/realtime/events.go
package realtime

// Event names pushed over the socket channel. Feed-level events are
// broadcast to every connected client; newNotification goes only to the
// recipient's sockets.
const (
	EventFeedCreated     = "feedCreated"
	EventFeedUpdated     = "feedUpdated"
	EventFeedDeleted     = "feedDeleted"
	EventFeedLiked       = "feedLiked"
	EventCommentAdded    = "commentAdded"
	EventCommentDeleted  = "commentDeleted"
	EventFeedPinned      = "feedPinned"
	EventFeedUnpinned    = "feedUnpinned"
	EventNewNotification = "newNotification"
)

// Event is the wire envelope: one named event with a JSON payload.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"data,omitempty"`
}

// Bus is what mutation handlers publish to. Delivery is best-effort and
// happens only after the causing store mutation has committed; a failed
// or missed delivery is repaired by the client's next full fetch.
type Bus interface {
	Broadcast(ev Event)
	SendToUser(userID string, ev Event)
}
