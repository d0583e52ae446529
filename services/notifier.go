package services

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// cancelQueueName is the durable queue cancellation events are published to.
const cancelQueueName = "reservation.cancelled"

// CancellationEvent is the payload handed to the Notifier when a
// reservation is cancelled. The core only decides THAT a notification must
// go out; rendering and transport belong to the consumer.
type CancellationEvent struct {
	ReservationID uint   `json:"reservation_id"`
	ReferenceCode string `json:"reference_code"`
	GuestName     string `json:"guest_name"`
	GuestEmail    string `json:"guest_email,omitempty"`
	Reason        string `json:"reason"`
	Kind          string `json:"kind"` // always "cancelled"
	Undeliverable bool   `json:"undeliverable"`
	CancelledAt   string `json:"cancelled_at"`
}

// Notifier receives lifecycle events. Delivery is best-effort: it must not
// block the caller's transaction, must tolerate an absent guest email
// (Undeliverable events are logged and skipped, never failed), and its
// errors never roll back the state transition that produced the event.
type Notifier interface {
	NotifyCancelled(ctx context.Context, ev CancellationEvent) error
}

// NewNotifierFromEnv returns an AMQP-backed notifier when a broker URL is
// configured (RABBITMQ_URL or AMQP_URL), otherwise a log-only fallback.
func NewNotifierFromEnv() Notifier {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		log.Println("notifier: no broker configured, cancellation events will only be logged")
		return LogNotifier{}
	}
	return &AMQPNotifier{url: url}
}

// LogNotifier writes events to the process log. Used in development and
// whenever no broker is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyCancelled(_ context.Context, ev CancellationEvent) error {
	if ev.Undeliverable {
		log.Printf("notifier: reservation %d (%s) cancelled (%s); no guest email, skipping delivery",
			ev.ReservationID, ev.ReferenceCode, ev.Reason)
		return nil
	}
	log.Printf("notifier: reservation %d (%s) cancelled (%s); notify %s",
		ev.ReservationID, ev.ReferenceCode, ev.Reason, ev.GuestEmail)
	return nil
}

// AMQPNotifier publishes cancellation events to RabbitMQ. Errors are logged
// and returned so callers can choose to ignore them; the publisher never
// panics and never blocks beyond the dial/publish round-trip.
type AMQPNotifier struct {
	url string
}

func NewAMQPNotifier(url string) *AMQPNotifier { return &AMQPNotifier{url: url} }

func (n *AMQPNotifier) NotifyCancelled(ctx context.Context, ev CancellationEvent) error {
	if ev.Undeliverable {
		log.Printf("notifier: reservation %d has no guest email; publishing event flagged undeliverable",
			ev.ReservationID)
	}

	conn, err := amqp.Dial(n.url)
	if err != nil {
		log.Printf("notifier: dial broker failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("notifier: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(cancelQueueName, true, false, false, false, nil); err != nil {
		log.Printf("notifier: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("notifier: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", cancelQueueName, false, false, pub); err != nil {
		log.Printf("notifier: publish failed: %v", err)
		return err
	}
	return nil
}
