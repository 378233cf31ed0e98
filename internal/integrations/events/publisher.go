// Package events публикует доменные события броней в RabbitMQ.
// Ошибки публикации логируются и возвращаются; вызывающий код не прерывает основную операцию.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикатор событий в одну durable-очередь
type Publisher struct {
	url   string
	queue string
	log   Logger
}

// NewPublisher создает публикатор
func NewPublisher(url, queue string, log Logger) *Publisher {
	return &Publisher{url: url, queue: queue, log: log}
}

// PublishReservationsCreated публикует событие создания броней
func (p *Publisher) PublishReservationsCreated(ctx context.Context, event ReservationsCreatedEvent) error {
	return p.publish(ctx, typeReservationsCreated, event)
}

// PublishReservationsCancelled публикует событие отмены броней
func (p *Publisher) PublishReservationsCancelled(ctx context.Context, event ReservationsCancelledEvent) error {
	return p.publish(ctx, typeReservationsCancelled, event)
}

func (p *Publisher) publish(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		p.log.Error("events: marshal %s failed: %v", eventType, err)
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("events: dial failed: %v", err)
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("events: channel open failed: %v", err)
		return fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.Error("events: queue declare %s failed: %v", p.queue, err)
		return fmt.Errorf("%w: declare queue: %v", ErrPublish, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         eventType,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.log.Error("events: publish %s failed: %v", eventType, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Info("events: published %s to %s", eventType, p.queue)
	return nil
}

// NoopPublisher используется, когда публикация событий выключена
type NoopPublisher struct{}

func (NoopPublisher) PublishReservationsCreated(context.Context, ReservationsCreatedEvent) error {
	return nil
}

func (NoopPublisher) PublishReservationsCancelled(context.Context, ReservationsCancelledEvent) error {
	return nil
}
