package invalidate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yourorg/listings-api/internal/events"
)

// Dropper discards cached catalogue data.
type Dropper interface {
	Invalidate(ctx context.Context) error
}

// Invalidator consumes property change events and drops the cached snapshot
// so the next read sees the write.
type Invalidator struct {
	Pub   events.Publisher
	Cache Dropper
	Log   zerolog.Logger
}

func (i *Invalidator) Run(ctx context.Context) {
	sub := i.Pub.SubscribePropertyChanged()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub:
			if err := i.Cache.Invalidate(ctx); err != nil {
				i.Log.Warn().Err(err).Str("property_id", evt.PropertyID).Msg("snapshot invalidation failed")
				continue
			}
			i.Log.Debug().Str("property_id", evt.PropertyID).Str("op", string(evt.Op)).Msg("snapshot invalidated")
		}
	}
}
