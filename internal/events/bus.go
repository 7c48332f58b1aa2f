// internal/events/bus.go
package events

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shopworks/storefront/internal/models"
)

// OrderCreated is published once per successfully committed order.
type OrderCreated struct {
	Order *models.Order
}

// OrderListener receives order-created notifications. Delivery is
// best-effort: a listener error is logged and never affects the order.
type OrderListener interface {
	HandleOrderCreated(event OrderCreated) error
}

// Publisher is the sink the order service talks to.
type Publisher interface {
	Publish(event OrderCreated)
}

// Bus is an in-process fan-out publisher.
type Bus struct {
	mtx       sync.RWMutex
	listeners []OrderListener
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(l OrderListener) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.listeners = append(b.listeners, l)
}

func (b *Bus) Publish(event OrderCreated) {
	b.mtx.RLock()
	listeners := make([]OrderListener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mtx.RUnlock()

	for _, l := range listeners {
		b.deliver(l, event)
	}
}

func (b *Bus) deliver(l OrderListener, event OrderCreated) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("order-created listener panicked")
		}
	}()

	if err := l.HandleOrderCreated(event); err != nil {
		logrus.WithError(err).WithField("order_id", event.Order.ID).
			Error("order-created listener failed")
	}
}
