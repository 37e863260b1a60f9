package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
)

func TestCache_GetEvent(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := New(client, time.Minute)

	event := domain.Event{ID: 7, Title: "Gala"}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet("taskmaster:event:7:event").SetVal(string(raw))

		got, hit, err := c.GetEvent(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, event.Title, got.Title)
	})

	t.Run("miss is not an error", func(t *testing.T) {
		mock.ExpectGet("taskmaster:event:8:event").RedisNil()

		_, hit, err := c.GetEvent(context.Background(), 8)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_SetEvent(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := New(client, time.Minute)

	event := domain.Event{ID: 7, Title: "Gala"}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectSet("taskmaster:event:7:event", raw, time.Minute).SetVal("OK")

	require.NoError(t, c.SetEvent(context.Background(), event))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_Invalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := New(client, time.Minute)

	t.Run("deletes one key per tag", func(t *testing.T) {
		mock.ExpectDel(
			"taskmaster:event:7:event",
			"taskmaster:event:7:ticket",
			"taskmaster:event:7:participants",
			"taskmaster:event:7:reserves",
		).SetVal(4)

		require.NoError(t, c.Invalidate(context.Background(), 7, AllTags...))
	})

	t.Run("no tags is a no-op", func(t *testing.T) {
		require.NoError(t, c.Invalidate(context.Background(), 7))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
