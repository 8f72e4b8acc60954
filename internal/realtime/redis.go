package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// RedisTransport delivers through Redis pub/sub. Used when the service
// runs without Pusher credentials (local development, tests against a
// real broker) and by in-cluster consumers.
type RedisTransport struct {
	rdb *redis.Client
}

func NewRedisTransport(rdb *redis.Client) *RedisTransport {
	return &RedisTransport{rdb: rdb}
}

func (t *RedisTransport) Publish(ctx context.Context, dest Destination, event entity.EventKind, payload any) error {
	b, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return err
	}
	return t.rdb.Publish(ctx, string(dest), b).Err()
}

// Subscription is a live channel subscription. Cancel is idempotent
// and safe to call from any goroutine, including one other than the
// subscriber's.
type Subscription struct {
	C      <-chan Envelope
	pubsub *redis.PubSub
	once   sync.Once
}

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		_ = s.pubsub.Close()
	})
}

// Subscribe opens a subscription on dest. The caller must have passed
// AuthorizeSubscription before a handle is issued.
func (t *RedisTransport) Subscribe(ctx context.Context, dest Destination) (*Subscription, error) {
	pubsub := t.rdb.Subscribe(ctx, string(dest))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan Envelope, 16)
	go forward(pubsub.Channel(), out)

	return &Subscription{C: out, pubsub: pubsub}, nil
}

// forward decodes pubsub messages onto out until the source closes.
// The send never blocks: a consumer that stopped reading, or abandoned
// the subscription without Cancel, loses realtime envelopes but cannot
// pin this goroutine. The durable notification rows remain the record.
func forward(msgs <-chan *redis.Message, out chan<- Envelope) {
	defer close(out)
	for msg := range msgs {
		var env Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			continue
		}
		select {
		case out <- env:
		default:
		}
	}
}
