// Package service holds the booking notifiers: the RabbitMQ event
// publisher and the catalog cache purger.  Both implement booking.Notifier
// and never fail the booking they report on.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
)

// Logger is the subset of the application logger the notifiers use.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// BookingPublisher sends queue.BookingEvent messages to a durable queue on
// the default exchange.  It dials per publish, so a broker restart needs no
// reconnect logic here.
type BookingPublisher struct {
	url     string
	queue   string
	timeout time.Duration
	log     Logger
}

func NewBookingPublisher(url, queueName string, log Logger) *BookingPublisher {
	return &BookingPublisher{url: url, queue: queueName, timeout: 3 * time.Second, log: log}
}

// Notify implements booking.Notifier.  Failures are logged and dropped.
func (p *BookingPublisher) Notify(ctx context.Context, event string, b model.Booking) {
	ev := queue.NewBookingEvent(event, b, time.Now())
	if err := p.Publish(ctx, ev); err != nil {
		p.log.Warnf("rabbitmq: publish %s for booking %d: %v", event, b.ID, err)
	}
}

// Publish sends one persistent JSON message.  The request context's
// cancellation is ignored so a client hanging up does not lose the event;
// the publisher's own timeout bounds the call instead.
func (p *BookingPublisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         ev.Event,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
