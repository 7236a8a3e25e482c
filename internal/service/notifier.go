package service

import (
	"context"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// Fanout forwards every notification to each notifier in order.
type Fanout []booking.Notifier

func (f Fanout) Notify(ctx context.Context, event string, b model.Booking) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, event, b)
		}
	}
}

// Purger drops cached responses.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// CachePurger clears the catalog cache after any booking transition so
// hotel pages stop serving the old is_available flag.
type CachePurger struct {
	Cache Purger
	Log   Logger
}

func (c CachePurger) Notify(ctx context.Context, event string, b model.Booking) {
	n, err := c.Cache.Purge(context.WithoutCancel(ctx))
	if err != nil {
		c.Log.Warnf("cache purge after %s of booking %d: %v", event, b.ID, err)
		return
	}
	if n > 0 {
		c.Log.Infof("cache purge after %s of booking %d: %d keys", event, b.ID, n)
	}
}
