package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPDispatcher hands notification jobs to the SMS gateway through a durable queue.
// The connection is opened lazily and reopened after the broker drops it.
type AMQPDispatcher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPDispatcher(cfg config.AMQPConfig) *AMQPDispatcher {
	return &AMQPDispatcher{url: cfg.URL, queue: cfg.Queue}
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, job shared.NotificationJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, err := d.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		d.queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID.String(),
			Type:         job.Kind,
			Timestamp:    time.Now().UTC(),
			Body:         job.Payload,
		},
	)
	if err != nil {
		d.reset()
		return errs.Wrap(err, "amqp publish")
	}
	return nil
}

func (d *AMQPDispatcher) channel() (*amqp.Channel, error) {
	if d.ch != nil && !d.ch.IsClosed() {
		return d.ch, nil
	}
	d.reset()

	conn, err := amqp.Dial(d.url)
	if err != nil {
		return nil, errs.Wrap(err, "amqp dial")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "amqp channel")
	}
	if _, err := ch.QueueDeclare(d.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrap(err, "amqp queue declare")
	}
	d.conn, d.ch = conn, ch
	return ch, nil
}

func (d *AMQPDispatcher) reset() {
	if d.ch != nil {
		_ = d.ch.Close()
	}
	if d.conn != nil {
		_ = d.conn.Close()
	}
	d.conn, d.ch = nil, nil
}

func (d *AMQPDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
	return nil
}

// LogDispatcher writes notifications to the log. It stands in for the gateway in
// development and when no broker is configured.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, job shared.NotificationJob) error {
	var payload shared.NotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.Wrap(err, "decode notification payload")
	}
	d.logger.Info("notification",
		"job_id", job.ID,
		"kind", job.Kind,
		"channel", job.Topic,
		"phone", payload.Phone,
		"message", payload.Message,
	)
	return nil
}
