package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleship/regions-backend/internal/domain"
)

func TestNotifyFansOut(t *testing.T) {
	n := New()

	var first, second []domain.Event
	n.Subscribe(func(e domain.Event) { first = append(first, e) })
	n.Subscribe(func(e domain.Event) { second = append(second, e) })

	event := domain.RegionUpdateEvent{
		RegionID:   "1",
		UpdateType: domain.UpdatePricing,
		Timestamp:  time.Now(),
	}
	n.Notify(event)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, event, first[0])
	assert.Equal(t, event, second[0])
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := New()

	var got []domain.Event
	unsubscribe := n.Subscribe(func(e domain.Event) { got = append(got, e) })
	assert.Equal(t, 1, n.SubscriberCount())

	n.Notify(domain.GlobalRefreshEvent{Timestamp: time.Now()})
	require.Len(t, got, 1)

	unsubscribe()
	assert.Equal(t, 0, n.SubscriberCount())

	n.Notify(domain.GlobalRefreshEvent{Timestamp: time.Now()})
	assert.Len(t, got, 1, "no delivery after unsubscribe")

	// second call is a no-op
	unsubscribe()
	assert.Equal(t, 0, n.SubscriberCount())
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	n := New()

	var got []domain.Event
	n.Subscribe(func(e domain.Event) { panic("boom") })
	n.Subscribe(func(e domain.Event) { got = append(got, e) })

	require.NotPanics(t, func() {
		n.Notify(domain.GlobalRefreshEvent{Timestamp: time.Now()})
	})
	assert.Len(t, got, 1, "healthy subscribers still receive the event")
}
