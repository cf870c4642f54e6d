package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	platformredis "driveops/internal/platform/redis"
	"driveops/pkg/platform/sentinel"
)

const deadLetterKey = "notify:dead-letter"

// MemoryDeadLetter keeps failed messages in process memory. The queue is
// lost on restart; use the Redis sink where replay must survive.
type MemoryDeadLetter struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemoryDeadLetter() *MemoryDeadLetter {
	return &MemoryDeadLetter{}
}

func (d *MemoryDeadLetter) Store(_ context.Context, msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
	return nil
}

// Messages returns a copy of the stored queue, oldest first.
func (d *MemoryDeadLetter) Messages() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Message, len(d.messages))
	copy(out, d.messages)
	return out
}

// RedisDeadLetter pushes failed messages onto a Redis list so an operator
// can replay them after the transport recovers.
type RedisDeadLetter struct {
	client *platformredis.Client
}

func NewRedisDeadLetter(client *platformredis.Client) *RedisDeadLetter {
	return &RedisDeadLetter{client: client}
}

func (d *RedisDeadLetter) Store(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal dead letter: %w", err)
	}
	if err := d.client.LPush(ctx, deadLetterKey, payload).Err(); err != nil {
		return fmt.Errorf("push dead letter: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
