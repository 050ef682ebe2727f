package messaging

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue is a durable RabbitMQ queue reached through the default exchange.
type Queue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string

	// publishing holds one slot; a publish waits for it or its ctx.
	publishing chan struct{}
}

func Dial(url, queue string) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declaring queue %s: %w", queue, err)
	}

	return &Queue{conn: conn, ch: ch, name: queue, publishing: make(chan struct{}, 1)}, nil
}

func (q *Queue) Name() string {
	return q.name
}

// Publish sends a persistent JSON message to the queue. It gives up when ctx
// ends while another publish holds the channel.
func (q *Queue) Publish(ctx context.Context, body []byte) error {
	select {
	case q.publishing <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("publishing to %s: %w", q.name, ctx.Err())
	}
	defer func() { <-q.publishing }()

	err := q.ch.PublishWithContext(ctx,
		"",     // default exchange
		q.name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", q.name, err)
	}
	return nil
}

// Consume starts a manual-ack consumer limited to prefetch unacknowledged
// deliveries.
func (q *Queue) Consume(prefetch int) (<-chan amqp.Delivery, error) {
	if err := q.ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("setting qos: %w", err)
	}

	deliveries, err := q.ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consuming %s: %w", q.name, err)
	}
	return deliveries, nil
}

func (q *Queue) Close() error {
	if q == nil {
		return nil
	}
	var firstErr error
	if q.ch != nil {
		if err := q.ch.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if q.conn != nil {
		if err := q.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
