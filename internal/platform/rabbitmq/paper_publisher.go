package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"paperlens/internal/model"
)

// PaperPublisher announces stored papers on a durable queue.
type PaperPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewPaperPublisher(conn *amqp.Connection, queueName string) *PaperPublisher {
	return &PaperPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *PaperPublisher) PublishPaperEvent(ctx context.Context, event model.PaperEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal paper event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event.Type,
			Timestamp:    time.Now().UTC(),
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish paper event failed: %w", err)
	}
	return nil
}

