package bus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	mu             sync.Mutex
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.mu.Lock()
	o.publishCount++
	o.mu.Unlock()
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ time.Duration) {
	o.mu.Lock()
	o.deliveredCount += handlers
	o.lastErr = err
	o.mu.Unlock()
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got Event
	sub, err := b.Subscribe("frame", func(e Event) error {
		got = e
		return nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID())
	assert.Equal(t, "frame", sub.EventType())

	require.NoError(t, b.Publish(NewEvent("frame", "session", 123)))
	require.NotNil(t, got)
	assert.Equal(t, 123, got.Data())
	assert.Equal(t, "session", got.Source())
	assert.False(t, got.Timestamp().IsZero())
}

func TestPublishOnlyMatchingType(t *testing.T) {
	b := New()
	var calls int
	_, err := b.Subscribe("a", func(Event) error { calls++; return nil })
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent("b", "t", nil)))
	assert.Zero(t, calls)
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1, e2 := errors.New("one"), errors.New("two")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.Publish(NewEvent("x", "t", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	var calls int
	sub, err := b.Subscribe("x", func(Event) error { calls++; return nil })
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent("x", "t", nil)))
	require.NoError(t, b.Unsubscribe(sub))
	assert.False(t, sub.IsActive())
	require.NoError(t, b.Publish(NewEvent("x", "t", nil)))
	assert.Equal(t, 1, calls)

	require.NoError(t, sub.Cancel(), "second cancel is a no-op")
	require.NoError(t, b.Unsubscribe(nil))
}

func TestSubscribeNilHandler(t *testing.T) {
	_, err := New().Subscribe("x", nil)
	assert.Error(t, err)
}

func TestObserverMetrics(t *testing.T) {
	b := New()
	boom := errors.New("boom")
	_, _ = b.Subscribe("x", func(Event) error { return nil })
	_, _ = b.Subscribe("x", func(Event) error { return boom })

	require.Error(t, b.Publish(NewEvent("x", "t", nil)))
	assert.Zero(t, b.GetMetrics().Published, "metrics stay off without observers")

	obs := &testObserver{}
	b.AddObserver(obs)
	require.Error(t, b.Publish(NewEvent("x", "t", nil)))

	m := b.GetMetrics()
	assert.EqualValues(t, 1, m.Published)
	assert.EqualValues(t, 2, m.DeliveredHandlers)
	assert.EqualValues(t, 1, m.Errors)
	assert.EqualValues(t, 2, m.SubscribersActive)
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, 2, obs.deliveredCount)
	assert.ErrorIs(t, obs.lastErr, boom)

	b.RemoveObserver(obs)
	require.Error(t, b.Publish(NewEvent("x", "t", nil)))
	assert.Equal(t, 1, obs.publishCount)
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	b := New()
	var delivered atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub, err := b.Subscribe("x", func(Event) error { delivered.Add(1); return nil })
			if err != nil {
				return
			}
			_ = sub.Cancel()
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Publish(NewEvent("x", "t", j))
			}
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, delivered.Load(), int64(0))
}

func BenchmarkPublish(b *testing.B) {
	bus := New()
	for i := 0; i < 4; i++ {
		_, _ = bus.Subscribe("frame", func(Event) error { return nil })
	}
	ev := NewEvent("frame", "bench", nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bus.Publish(ev)
	}
}
