package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/storage"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the list that escalation tickets are pushed onto.
const DefaultQueueKey = "bazaar:escalations"

// TicketQueue hands escalation tickets to a support system through a Redis list.
// Producers LPUSH, so consumers BRPOP tickets in submission order.
type TicketQueue struct {
	client goredis.UniversalClient
	key    string
}

var _ storage.TicketSink = (*TicketQueue)(nil)

// NewTicketQueue creates a queue on key. An empty key uses DefaultQueueKey.
func NewTicketQueue(client goredis.UniversalClient, key string) *TicketQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &TicketQueue{client: client, key: key}
}

// Dial connects to the Redis server at addr and verifies the connection.
func Dial(ctx context.Context, addr, key string) (*TicketQueue, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewTicketQueue(client, key), nil
}

// SubmitTicket validates the ticket and pushes its JSON form onto the queue.
func (q *TicketQueue) SubmitTicket(ctx context.Context, ticket *core.EscalationTicket) error {
	if err := core.ValidateTicket(ticket); err != nil {
		return err
	}
	payload, err := storage.MarshalTicket(ticket)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Pending returns up to limit queued tickets, oldest first, without removing them.
func (q *TicketQueue) Pending(ctx context.Context, limit int) ([]*core.EscalationTicket, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := q.client.LRange(ctx, q.key, int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}

	tickets := make([]*core.EscalationTicket, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		ticket, err := storage.UnmarshalTicket([]byte(raw[i]))
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// Pop removes and returns the oldest queued ticket.
// Returns storage.ErrNotFound when the queue is empty.
func (q *TicketQueue) Pop(ctx context.Context) (*core.EscalationTicket, error) {
	raw, err := q.client.RPop(ctx, q.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return storage.UnmarshalTicket([]byte(raw))
}

// Len returns the number of queued tickets.
func (q *TicketQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Close closes the underlying client.
func (q *TicketQueue) Close() error {
	return q.client.Close()
}
