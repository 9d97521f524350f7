package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Google Cloud Pub/Sub. topics maps event types to topic
// names; unmapped events publish to a topic named after the event type.
func New(ctx context.Context, projectID string, topics map[EventType]string) (PubSubClient, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	log.Info("Connected to Pub/Sub", "project", projectID)

	return &client{
		client: pubSubC,
		topics: topics,
		opened: make(map[string]*pubsub.Topic),
	}, nil
}

func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := Encode(data)
	if err != nil {
		return err
	}
	name := c.topicName(topic)
	result := c.topic(name).Publish(ctx, &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{"event": string(topic)},
	})
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", name)
		return err
	}
	log.Info("SendMessage", "serverID", serverID, "topic", name)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

// Close flushes pending publishes and closes the connection.
func (c *client) Close() error {
	c.mu.Lock()
	for _, t := range c.opened {
		t.Stop()
	}
	c.opened = make(map[string]*pubsub.Topic)
	c.mu.Unlock()
	return c.client.Close()
}

func (c *client) topicName(topic EventType) string {
	if name, ok := c.topics[topic]; ok && name != "" {
		return name
	}
	return string(topic)
}

func (c *client) topic(name string) *pubsub.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.opened[name]
	if !ok {
		t = c.client.Topic(name)
		c.opened[name] = t
	}
	return t
}

// Encode marshals a payload the way every publisher in this package does.
func Encode(data any) ([]byte, error) {
	b, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, err
	}
	return b, nil
}

// Decode unmarshals a payload produced by Encode into returnValue.
func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
