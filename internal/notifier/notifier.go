package notifier

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/pkg/logger"
)

// Callback receives state-change events.
type Callback func(event domain.Event)

// Notifier fans out events to subscribers synchronously. A panicking
// subscriber is recovered and logged so it cannot prevent the others from
// observing the event. There are no delivery guarantees beyond reaching
// whoever is subscribed at notify time.
type Notifier struct {
	mu          sync.RWMutex
	subscribers map[int]Callback
	nextID      int
}

func New() *Notifier {
	return &Notifier{subscribers: make(map[int]Callback)}
}

// Subscribe registers a callback and returns its unsubscribe function.
func (n *Notifier) Subscribe(cb Callback) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subscribers[id] = cb
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subscribers, id)
		n.mu.Unlock()
	}
}

// Notify invokes every current subscriber with the event.
func (n *Notifier) Notify(event domain.Event) {
	n.mu.RLock()
	callbacks := make([]Callback, 0, len(n.subscribers))
	for _, cb := range n.subscribers {
		callbacks = append(callbacks, cb)
	}
	n.mu.RUnlock()

	for _, cb := range callbacks {
		invoke(cb, event)
	}
}

// SubscriberCount returns the number of active subscribers.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

func invoke(cb Callback, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event subscriber panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r))
		}
	}()
	cb(event)
}
