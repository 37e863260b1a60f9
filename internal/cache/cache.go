// Package cache layers logical invalidation tags over redis. Cached
// reads are labelled with a tag per view (event, ticket, participants,
// reserves); every mutating operation invalidates the tags it touched.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
)

type Tag string

const (
	TagEvent        Tag = "event"
	TagTicket       Tag = "ticket"
	TagParticipants Tag = "participants"
	TagReserves     Tag = "reserves"
)

// AllTags is the invalidation set for a successful join, which touches
// every cached view of the event.
var AllTags = []Tag{TagEvent, TagTicket, TagParticipants, TagReserves}

type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func New(client redis.UniversalClient, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

func (c *Cache) GetEvent(ctx context.Context, eventID uint) (domain.Event, bool, error) {
	raw, err := c.client.Get(ctx, key(eventID, TagEvent)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Event{}, false, nil
		}

		return domain.Event{}, false, fmt.Errorf("c.client.Get -> %w", err)
	}

	var event domain.Event
	if err = json.Unmarshal(raw, &event); err != nil {
		return domain.Event{}, false, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return event, true, nil
}

func (c *Cache) SetEvent(ctx context.Context, event domain.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = c.client.Set(ctx, key(event.ID, TagEvent), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("c.client.Set -> %w", err)
	}

	return nil
}

// Invalidate drops every cached view carrying one of the given tags for
// the event. Missing keys are not an error.
func (c *Cache) Invalidate(ctx context.Context, eventID uint, tags ...Tag) error {
	if len(tags) == 0 {
		return nil
	}

	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = key(eventID, tag)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("c.client.Del -> %w", err)
	}

	return nil
}

func key(eventID uint, tag Tag) string {
	return fmt.Sprintf("taskmaster:event:%d:%s", eventID, tag)
}
