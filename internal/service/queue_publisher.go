package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/venue-booking-api/internal/queue"
)

// Publisher delivers domain events to the broker.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, queue.Event) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

// ErrBrokerUnavailable is returned without dialing while another dial is in
// flight or shortly after one failed.
var ErrBrokerUnavailable = errors.New("rabbitmq unavailable")

// AMQPPublisher publishes persistent JSON messages to a durable topic
// exchange, routed by event type. The connection is opened lazily and
// reopened after it drops. Dials are bounded by the caller's deadline and
// never run under the mutex.
type AMQPPublisher struct {
	url         string
	exchange    string
	dialTimeout time.Duration
	retryAfter  time.Duration
	now         func() time.Time

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	dialing  bool
	failedAt time.Time
	closed   bool
}

func NewAMQPPublisher(url, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		url:         url,
		exchange:    exchange,
		dialTimeout: 2 * time.Second,
		retryAfter:  5 * time.Second,
		now:         time.Now,
	}
}

func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	p.mu.Lock()
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	}
	switch {
	case p.closed:
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: publisher closed", ErrBrokerUnavailable)
	case p.dialing:
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: connection in progress", ErrBrokerUnavailable)
	case !p.failedAt.IsZero() && p.now().Sub(p.failedAt) < p.retryAfter:
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: backing off after failed dial", ErrBrokerUnavailable)
	}
	p.closeLocked()
	p.dialing = true
	p.mu.Unlock()

	conn, ch, err := p.dial(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.failedAt = p.now()
		return nil, err
	}
	if p.closed {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: publisher closed", ErrBrokerUnavailable)
	}
	p.failedAt = time.Time{}
	p.conn, p.ch = conn, ch
	return ch, nil
}

// dial connects within the smaller of dialTimeout and the time left on ctx.
// The timeout covers both the TCP connect and the AMQP handshake.
func (p *AMQPPublisher) dial(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
	timeout := p.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", context.DeadlineExceeded)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	// Durable so the exchange survives broker restarts.
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	return conn, ch, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.Event) error {
	body, err := ev.Encode()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, ev.Type, false, false, pub); err != nil {
		p.mu.Lock()
		if p.ch == ch {
			p.closeLocked()
		}
		p.mu.Unlock()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.closeLocked()
	return nil
}

// events publishes best effort: a failure is logged and never reaches the
// caller, and the write that triggered it stands.
type events struct {
	pub     Publisher
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func newEvents(pub Publisher, logger *slog.Logger) events {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return events{pub: pub, log: logger, timeout: 2 * time.Second, now: time.Now}
}

func (e events) emit(ctx context.Context, ev queue.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()
	if err := e.pub.Publish(ctx, ev.Stamp(e.now())); err != nil {
		e.log.Warn("event publish failed", "type", ev.Type, "id", ev.EntityID, "err", err)
	}
}
