package pubsub

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// localClient delivers messages in-process, synchronously, to a single
// handler. It is used when no Pub/Sub project is configured.
type localClient struct {
	handler Handler
}

// NewLocal returns a PubSubClient that hands every message straight to handler.
func NewLocal(handler Handler) PubSubClient {
	return &localClient{handler: handler}
}

func (c *localClient) SendMessage(ctx context.Context, topic EventType, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := Encode(data)
	if err != nil {
		return err
	}
	log.Debug("Delivering message in-process", "topic", topic)
	if err := c.handler(topic, payload); err != nil {
		return fmt.Errorf("handle %s: %w", topic, err)
	}
	return nil
}

func (c *localClient) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (c *localClient) Close() error {
	return nil
}
