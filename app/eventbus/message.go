package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Publisher is the publishing half of a Watermill pub/sub.
type Publisher interface {
	Publish(topic string, messages ...*message.Message) error
}

// NewMessage encodes payload as JSON and carries the context correlation id.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	if id := attr.CorrelationID(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	return msg, nil
}

// PublishJSON publishes a single JSON payload to topic.
func PublishJSON(ctx context.Context, pub Publisher, topic string, payload any) error {
	msg, err := NewMessage(ctx, payload)
	if err != nil {
		return err
	}
	return pub.Publish(topic, msg)
}

// Decode unmarshals a JSON message payload into T.
func Decode[T any](msg *message.Message) (*T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %T: %w", payload, err)
	}
	return &payload, nil
}
