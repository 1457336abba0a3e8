package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBus() *Bus {
	b := newBus(nil, "test-channel", zap.NewNop())
	b.now = func() time.Time { return time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC) }
	return b
}

func TestEncode(t *testing.T) {
	b := testBus()

	payload, err := b.encode([]string{"staff_groups", "daily_limits"})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"source": "`+b.source+`",
		"keys": ["staff_groups", "daily_limits"],
		"sentAt": "2024-02-01T09:30:00Z"
	}`, payload)

	payload, err = b.encode(nil)
	require.NoError(t, err)
	assert.Contains(t, payload, `"keys":[]`)
}

func TestHandle_DeliversOtherSources(t *testing.T) {
	publisher := testBus()
	subscriber := testBus()
	require.NotEqual(t, publisher.source, subscriber.source)

	payload, err := publisher.encode([]string{"weekly_limits"})
	require.NoError(t, err)

	var received []Change
	subscriber.handle(payload, func(c Change) { received = append(received, c) })

	require.Len(t, received, 1)
	assert.Equal(t, publisher.source, received[0].Source)
	assert.Equal(t, []string{"weekly_limits"}, received[0].Keys)
}

func TestHandle_SkipsOwnMessages(t *testing.T) {
	b := testBus()
	payload, err := b.encode([]string{"weekly_limits"})
	require.NoError(t, err)

	called := false
	b.handle(payload, func(Change) { called = true })
	assert.False(t, called)
}

func TestHandle_IgnoresMalformedPayload(t *testing.T) {
	b := testBus()

	called := false
	b.handle("not json", func(Change) { called = true })
	assert.False(t, called)
}
