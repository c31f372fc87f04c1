package services

import (
	"context"
	"sync"
	"time"

	"github.com/dealwise-project/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

// PriceStreamHub fans Redis price events out to SSE clients over a single subscription.
type PriceStreamHub struct {
	redis       *redis.Client
	channelName string

	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
	ready       chan struct{}
	readyOnce   sync.Once
}

// NewPriceStreamHub starts relaying channel until ctx is cancelled.
func NewPriceStreamHub(ctx context.Context, rdb *redis.Client, channel string) *PriceStreamHub {
	hub := &PriceStreamHub{
		redis:       rdb,
		channelName: channel,
		subscribers: make(map[chan []byte]struct{}),
		ready:       make(chan struct{}),
	}

	go hub.run(ctx)

	return hub
}

// Ready is closed once the first Redis subscription is confirmed.
func (h *PriceStreamHub) Ready() <-chan struct{} {
	return h.ready
}

func (h *PriceStreamHub) run(ctx context.Context) {
	for {
		pubsub := h.redis.Subscribe(ctx, h.channelName)
		stop := context.AfterFunc(ctx, func() { _ = pubsub.Close() })
		if _, err := pubsub.Receive(ctx); err != nil {
			logger.Error("PriceStreamHub: subscribe failed: %v", err)
		} else {
			h.readyOnce.Do(func() { close(h.ready) })
			for msg := range pubsub.Channel(redis.WithChannelSize(4096)) {
				h.broadcast([]byte(msg.Payload))
			}
		}
		stop()
		_ = pubsub.Close()

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
			// Redis dropped the connection; resubscribe
		}
	}
}

func (h *PriceStreamHub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub <- payload:
		default:
			// Slow subscriber: drop its oldest message
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- payload:
			default:
			}
		}
	}
}

// Subscribe registers a new listener and returns a channel plus cleanup function.
func (h *PriceStreamHub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 256)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, unsubscribe
}
