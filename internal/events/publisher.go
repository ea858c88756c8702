// Package events publishes order lifecycle messages to RabbitMQ. The cart
// service treats publishing as best effort: a checkout that already
// decremented stock is not rolled back because the broker was down.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const OrderCompletedQueue = "order.completed"

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCompleted struct {
	EventType string          `json:"event_type"`
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

type Publisher interface {
	PublishOrderCompleted(ctx context.Context, ev OrderCompleted) error
	Close() error
}

type AMQPPublisher struct {
	ch *amqp.Channel
}

func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare the queue up front so publish never fails on missing infra.
	if _, err := ch.QueueDeclare(OrderCompletedQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", OrderCompletedQueue, err)
	}

	return &AMQPPublisher{ch: ch}, nil
}

func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

func (p *AMQPPublisher) PublishOrderCompleted(ctx context.Context, ev OrderCompleted) error {
	if ev.EventType == "" {
		ev.EventType = "OrderCompleted"
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCompleted: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		"",                  // default exchange
		OrderCompletedQueue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCompleted(ctx context.Context, ev OrderCompleted) error { return nil }
func (NopPublisher) Close() error                                                       { return nil }
