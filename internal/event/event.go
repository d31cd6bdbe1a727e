package event

type Type string

const (
	TypeNoticePublished = "notice.published"
	TypeNoticeUpdated   = "notice.updated"
	TypeNoticeDeleted   = "notice.deleted"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Platform  string      `json:"platform,omitempty"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"` // Who triggered the event
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
