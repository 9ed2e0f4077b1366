// Package amqp publishes parking events to RabbitMQ and feeds them to
// the export worker. The exchange is direct and the queue durable;
// messages are persistent JSON envelopes.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (c *Client) publish(ctx context.Context, eventType string, payload any) error {
	body, err := newEnvelope(eventType, payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		c.queueName,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	slog.InfoContext(ctx, "Published event",
		"type", eventType,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// PublishReceiptPosted announces a persisted receipt.
func (c *Client) PublishReceiptPosted(ctx context.Context, ticketID string, feeCents int64) error {
	return c.publish(ctx, TypeReceiptPosted, ReceiptPostedMessage{
		TicketID: ticketID,
		FeeCents: feeCents,
	})
}

// PublishPassSold announces a pass sale.
func (c *Client) PublishPassSold(ctx context.Context, msg PassSoldMessage) error {
	return c.publish(ctx, TypePassSold, msg)
}

// Handlers dispatches consumed events by type.
type Handlers struct {
	OnReceiptPosted func(ctx context.Context, msg *ReceiptPostedMessage) error
	OnPassSold      func(ctx context.Context, msg *PassSoldMessage) error
}

// Consume processes events until the context is cancelled. Malformed
// messages are rejected without requeue; handler failures requeue.
func (c *Client) Consume(ctx context.Context, handlers Handlers) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		"",    // consumer
		false, // auto-ack (we want manual ack)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			env, err := DecodeEnvelope(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to decode envelope", "error", err)
				delivery.Nack(false, false)
				continue
			}

			if err := c.dispatch(ctx, env, handlers); err != nil {
				slog.ErrorContext(ctx, "Failed to handle event",
					"error", err,
					"type", env.Type)
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, env *Envelope, handlers Handlers) error {
	switch env.Type {
	case TypeReceiptPosted:
		if handlers.OnReceiptPosted == nil {
			return nil
		}
		var msg ReceiptPostedMessage
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return handlers.OnReceiptPosted(ctx, &msg)
	case TypePassSold:
		if handlers.OnPassSold == nil {
			return nil
		}
		var msg PassSoldMessage
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return handlers.OnPassSold(ctx, &msg)
	default:
		slog.WarnContext(ctx, "Unknown event type, skipping", "type", env.Type)
		return nil
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
