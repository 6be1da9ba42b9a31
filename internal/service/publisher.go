package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/student-threshold-api/internal/queue"
)

// EventPublisher reports completed threshold queries. Implementations must
// not block the request path for long; errors are informational.
type EventPublisher interface {
	PublishThresholdQueried(ctx context.Context, ev queue.ThresholdQueriedEvent) error
}

// NopPublisher drops every event. It is used when QUEUE_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) PublishThresholdQueried(context.Context, queue.ThresholdQueriedEvent) error {
	return nil
}

// AMQPPublisher sends events to the threshold.queried queue, dialing per
// message. Messages are persistent.
type AMQPPublisher struct {
	URL string
}

func (p *AMQPPublisher) PublishThresholdQueried(ctx context.Context, ev queue.ThresholdQueriedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.ThresholdQueriedQueue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ThresholdQueriedQueue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// NewThresholdQueriedEvent describes a finished query.
func NewThresholdQueriedEvent(requestID string, q ThresholdQuery, res ThresholdResult, rosterSize int, at time.Time) queue.ThresholdQueriedEvent {
	return queue.ThresholdQueriedEvent{
		EventID:   uuid.NewString(),
		RequestID: requestID,
		Threshold: strconv.FormatFloat(q.Threshold, 'g', -1, 64),
		Count:     res.Count,
		Roster:    rosterSize,
		QueriedAt: at.UTC().Format(time.RFC3339),
	}
}
