package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the interface for pushing messages to the kitchen broker.
type Publisher interface {
	// Publish sends body to the exchange with the given routing key.
	Publish(ctx context.Context, routingKey string, body []byte) error
	// Close releases the broker connection.
	Close() error
	// IsConnected returns true if the broker connection is active.
	IsConnected() bool
}

// --- RabbitMQ publisher (topic exchange, persistent JSON messages) ---

type rabbitPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	timeout  time.Duration
}

// NewRabbitPublisher dials url and declares a durable topic exchange.
func NewRabbitPublisher(url, exchange string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: failed to connect: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("broker: failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("broker: failed to declare exchange %s: %w", exchange, err)
	}

	return &rabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		timeout:  5 * time.Second,
	}, nil
}

func (p *rabbitPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("broker: failed to publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *rabbitPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *rabbitPublisher) IsConnected() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// --- Null publisher (no-op, used when no broker is configured) ---

type nullPublisher struct{}

// NewNullPublisher creates a no-op publisher for environments without a broker.
func NewNullPublisher() Publisher {
	return &nullPublisher{}
}

func (p *nullPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	return nil
}

func (p *nullPublisher) Close() error {
	return nil
}

func (p *nullPublisher) IsConnected() bool {
	return false
}

// NewPublisherFromConfig creates a RabbitMQ publisher when url is set and a
// null publisher otherwise.
func NewPublisherFromConfig(url, exchange string) (Publisher, error) {
	if url == "" {
		return NewNullPublisher(), nil
	}
	if exchange == "" {
		return nil, fmt.Errorf("broker: exchange is required when AMQP_URL is set")
	}
	return NewRabbitPublisher(url, exchange)
}
