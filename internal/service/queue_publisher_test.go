package service

import (
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-api/internal/queue"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestEmitIsBoundedBySilentBroker(t *testing.T) {
	pub := NewAMQPPublisher(silentBroker(t), "venue.events")
	t.Cleanup(func() { _ = pub.Close() })

	ev := newEvents(pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ev.timeout = 300 * time.Millisecond

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev.emit(ctx, queue.Event{Type: queue.BookingCreated, EntityID: "b1"})
		}()
	}
	wg.Wait()
	assert.Less(t, time.Since(start), 2*time.Second)

	// a dial just failed, so the next publish backs off without dialing
	start = time.Now()
	err := pub.Publish(ctx, queue.Event{Type: queue.BookingCreated, EntityID: "b2"})
	assert.ErrorIs(t, err, ErrBrokerUnavailable)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPublishRetriesAfterBackoff(t *testing.T) {
	pub := NewAMQPPublisher(silentBroker(t), "venue.events")
	t.Cleanup(func() { _ = pub.Close() })
	pub.dialTimeout = 100 * time.Millisecond

	clock := time.Now()
	pub.now = func() time.Time { return clock }

	err := pub.Publish(ctx, queue.Event{Type: queue.BookingCreated, EntityID: "b1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBrokerUnavailable)

	err = pub.Publish(ctx, queue.Event{Type: queue.BookingCreated, EntityID: "b1"})
	assert.ErrorIs(t, err, ErrBrokerUnavailable)

	// once the backoff has passed the publisher dials again
	clock = clock.Add(pub.retryAfter)
	err = pub.Publish(ctx, queue.Event{Type: queue.BookingCreated, EntityID: "b1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBrokerUnavailable)
}

func TestClosedPublisherDoesNotDial(t *testing.T) {
	pub := NewAMQPPublisher(silentBroker(t), "venue.events")
	require.NoError(t, pub.Close())

	err := pub.Publish(ctx, queue.Event{Type: queue.BookingCreated, EntityID: "b1"})
	assert.ErrorIs(t, err, ErrBrokerUnavailable)
}
