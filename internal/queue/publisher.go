package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const dialTimeout = 5 * time.Second

// Publisher sends ComboEvents to the durable combo.events queue. Each call
// dials its own connection; publishing happens once per combo write so
// connection reuse is not worth the reconnect bookkeeping.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, log: log.Named("publisher")}
}

// Publish marshals ev and publishes it as a persistent message. Errors are
// logged and returned; callers treat them as non-fatal.
func (p *Publisher) Publish(ctx context.Context, ev ComboEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		p.log.Warn("dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(comboQueueName, true, false, false, false, nil); err != nil {
		p.log.Warn("queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", comboQueueName, false, false, pub); err != nil {
		p.log.Warn("publish failed", zap.String("type", ev.Type), zap.Uint64("combo_id", ev.ComboID), zap.Error(err))
		return err
	}
	return nil
}
