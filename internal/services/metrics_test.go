package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.IncrementConnections()
	m.IncrementConnections()
	m.DecrementConnections()
	m.IncrementMessagesReceived()
	m.IncrementMessagesSent()
	m.IncrementMessagesSent()
	m.IncrementGamesStarted()
	m.IncrementRoundsResolved()
	m.IncrementRoundsResolved()
	m.IncrementBotDecisions()
	m.IncrementTimeoutActions()
	m.IncrementRateLimitViolations()

	snap := m.Snapshot(3)

	assert.Equal(t, int64(1), snap.ActiveConnections)
	assert.Equal(t, int64(2), snap.TotalConnections)
	assert.Equal(t, 3, snap.ActiveRooms)
	assert.Equal(t, int64(1), snap.MessagesReceived)
	assert.Equal(t, int64(2), snap.MessagesSent)
	assert.Equal(t, int64(1), snap.GamesStarted)
	assert.Equal(t, int64(2), snap.RoundsResolved)
	assert.Equal(t, int64(1), snap.BotDecisions)
	assert.Equal(t, int64(1), snap.TimeoutActions)
	assert.Equal(t, int64(1), snap.RateLimitViolations)
	assert.NotEmpty(t, snap.LastMessageTime)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestMetricsSnapshotZeroValue(t *testing.T) {
	m := NewMetrics()
	snap := m.Snapshot(0)

	assert.Zero(t, snap.ActiveConnections)
	assert.Zero(t, snap.MessagesPerSecond)
	assert.Empty(t, snap.LastMessageTime, "no traffic means no last-message timestamp")
}
