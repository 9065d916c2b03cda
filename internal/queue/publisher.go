package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ransjnr/evote-sub001/internal/domain"
)

const reconciliationQueueName = "payments.reconciliation"

// Publisher writes resolution conflicts to a durable RabbitMQ queue. It
// dials per publish and never panics; a publish failure is logged and the
// conflict still reaches the server log, so a broker outage cannot take the
// payment path down.
type Publisher struct {
	url    string
	logger *log.Logger
}

func NewPublisher(url string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{url: url, logger: logger}
}

// ReportResolutionConflict implements the allocation engine's conflict
// reporter.
func (p *Publisher) ReportResolutionConflict(ctx context.Context, reference string, attempted, current domain.IntentStatus) {
	event := ResolutionConflictEvent{
		ExternalReference: reference,
		AttemptedStatus:   string(attempted),
		CurrentStatus:     string(current),
		OccurredAt:        time.Now().UTC().Format(time.RFC3339),
	}
	p.logger.Printf("reconciliation: conflicting resolution for %s: attempted %s, intent already %s", reference, attempted, current)
	if err := p.publish(ctx, event); err != nil {
		p.logger.Printf("reconciliation: publish failed for %s: %v", reference, err)
	}
}

func (p *Publisher) publish(ctx context.Context, event ResolutionConflictEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable queue, declared idempotently, so messages survive broker
	// restarts and the consumer can come up in any order.
	if _, err := ch.QueueDeclare(
		reconciliationQueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",
		reconciliationQueueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
