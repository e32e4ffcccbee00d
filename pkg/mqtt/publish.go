package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrPublishTimeout is returned when the broker does not acknowledge a message in time.
var ErrPublishTimeout = errors.New("publish timed out")

// PublishTimeout bounds how long PublishJSON waits for the broker.
var PublishTimeout = 5 * time.Second

// PublishJSON serializes v and publishes it, blocking until the broker acknowledges
// the message according to qos or PublishTimeout elapses.
func PublishJSON(client MQTTClient, topic string, qos byte, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serialize message for %s: %w", topic, err)
	}

	token := client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(PublishTimeout) {
		return fmt.Errorf("publish to %s: %w after %s", topic, ErrPublishTimeout, PublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
