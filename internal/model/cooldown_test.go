package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownTracker(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unknown key is admitted immediately", func(t *testing.T) {
		ct := NewCooldownTracker(10*time.Second, time.Second)

		status := ct.Check("10.0.0.1", base)
		assert.True(t, status.Allowed)
		assert.Zero(t, status.Remaining)
	})

	t.Run("record denies until the deadline", func(t *testing.T) {
		ct := NewCooldownTracker(10*time.Second, time.Second)

		deadline := ct.Record("10.0.0.1", base)
		assert.Equal(t, base.Add(10*time.Second), deadline)

		status := ct.Check("10.0.0.1", base.Add(3*time.Second))
		assert.False(t, status.Allowed)
		assert.Equal(t, 7*time.Second, status.Remaining)

		status = ct.Check("10.0.0.1", deadline)
		assert.True(t, status.Allowed)
	})

	t.Run("check never extends a cooldown", func(t *testing.T) {
		ct := NewCooldownTracker(10*time.Second, time.Second)
		deadline := ct.Record("10.0.0.1", base)

		for i := 1; i < 5; i++ {
			ct.Check("10.0.0.1", base.Add(time.Duration(i)*time.Second))
		}

		status := ct.Check("10.0.0.1", base.Add(9*time.Second))
		assert.False(t, status.Allowed)
		assert.Equal(t, deadline.Sub(base.Add(9*time.Second)), status.Remaining)
	})

	t.Run("loopback keys get the short cooldown", func(t *testing.T) {
		ct := NewCooldownTracker(10*time.Second, time.Second)

		assert.Equal(t, base.Add(time.Second), ct.Record("127.0.0.1", base))
		assert.Equal(t, base.Add(time.Second), ct.Record("::1", base))
		assert.Equal(t, base.Add(time.Second), ct.Record("localhost", base))
		assert.Equal(t, base.Add(10*time.Second), ct.Record("192.168.0.83", base))
	})

	t.Run("expired entries are evicted on check", func(t *testing.T) {
		ct := NewCooldownTracker(10*time.Second, time.Second)
		ct.Record("10.0.0.1", base)
		assert.Equal(t, 1, ct.Size())

		ct.Check("10.0.0.1", base.Add(time.Minute))
		assert.Equal(t, 0, ct.Size())
	})

	t.Run("sweep drops only expired entries", func(t *testing.T) {
		ct := NewCooldownTracker(10*time.Second, time.Second)
		ct.Record("10.0.0.1", base)
		ct.Record("10.0.0.2", base.Add(8*time.Second))

		dropped := ct.Sweep(base.Add(11 * time.Second))
		assert.Equal(t, 1, dropped)
		assert.Equal(t, 1, ct.Size())

		status := ct.Check("10.0.0.2", base.Add(11*time.Second))
		assert.False(t, status.Allowed)
	})

	t.Run("zero durations fall back to defaults", func(t *testing.T) {
		ct := NewCooldownTracker(0, 0)

		assert.Equal(t, base.Add(DefaultCooldown), ct.Record("10.0.0.1", base))
		assert.Equal(t, base.Add(DefaultLocalCooldown), ct.Record("127.0.0.1", base))
	})
}
