// Package broadcast relays signals between storefront processes over Redis
// pub/sub. It carries the "login" signal so every open context re-derives its
// session state, the same way browser tabs observe storage changes.
//
// Like the cache, it is optional: without Redis, Publish is a no-op and
// Subscribe never fires. In-process listeners still see everything through
// pkg/event.
package broadcast

import (
	"context"
	"encoding/json"

	"github.com/rsharma-dev/zaika/pkg/cache"
	"github.com/rsharma-dev/zaika/pkg/logger"
)

// Message is the envelope published on a channel.
type Message struct {
	Event   string `json:"event"`
	Payload string `json:"payload,omitempty"`
}

// Publish sends a message on the named channel. Local-only when Redis is off.
func Publish(channel string, msg Message) {
	rdb := cache.Client()
	if rdb == nil {
		return
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := rdb.Publish(context.Background(), channel, raw).Err(); err != nil {
		logger.Warn("broadcast: publish failed", "channel", channel, "error", err)
	}
}

// Subscribe listens on the named channel until ctx is cancelled, invoking
// handler for every decoded message. Returns immediately when Redis is off.
func Subscribe(ctx context.Context, channel string, handler func(Message)) {
	rdb := cache.Client()
	if rdb == nil {
		return
	}

	sub := rdb.Subscribe(ctx, channel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					logger.Warn("broadcast: bad message", "channel", channel, "error", err)
					continue
				}
				handler(msg)
			}
		}
	}()
}
