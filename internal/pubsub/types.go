package pubsub

import (
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client *pubsub.Client
	topics map[EventType]string

	mu     sync.Mutex
	opened map[string]*pubsub.Topic
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchChanged EventType = "match-changed"
)

// MatchAction says what happened to the match that triggered an event.
type MatchAction string

const (
	MatchCreated MatchAction = "created"
	MatchUpdated MatchAction = "updated"
	MatchDeleted MatchAction = "deleted"
)

// MatchChangedEvent is the payload of EventMatchChanged.
type MatchChangedEvent struct {
	MatchID    string      `msgpack:"match_id"`
	Action     MatchAction `msgpack:"action"`
	OccurredAt time.Time   `msgpack:"occurred_at"`
}

// Handler consumes a raw message published on topic.
type Handler func(topic EventType, data []byte) error
