package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"livescore-service/logger"
)

// UpdatesExchange is the fanout exchange live updates are published to.
const UpdatesExchange = "live_matches"

// UpdatePublisher mirrors every broadcast onto an AMQP fanout exchange
// so other services can consume live updates without holding a
// WebSocket connection. Delivery is best effort.
type UpdatePublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
}

func NewUpdatePublisher(amqpURL string) (*UpdatePublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		UpdatesExchange,
		"fanout",
		false, // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Printf("[AMQP] Publisher connected, exchange: %s", UpdatesExchange)

	return &UpdatePublisher{conn: conn, channel: channel}, nil
}

// Broadcast implements Broadcaster. Publish failures are logged and
// dropped; the exchange is a mirror, not a source of truth.
func (p *UpdatePublisher) Broadcast(event string, payload interface{}) {
	body, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
	if err != nil {
		logger.Errorf("[AMQP] Failed to marshal %s: %v", event, err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		UpdatesExchange,
		"",    // routing key ignored by fanout
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		logger.Errorf("[AMQP] Failed to publish %s: %v", event, err)
	}
}

// Close shuts the channel and connection down.
func (p *UpdatePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		logger.Errorf("[AMQP] Failed to close channel: %v", err)
	}
	return p.conn.Close()
}
