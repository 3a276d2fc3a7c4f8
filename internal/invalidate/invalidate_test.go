package invalidate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/yourorg/listings-api/internal/events"
)

type countingDropper struct {
	calls atomic.Int32
	err   error
}

func (d *countingDropper) Invalidate(ctx context.Context) error {
	d.calls.Add(1)
	return d.err
}

func TestInvalidator_DropsOnEveryEvent(t *testing.T) {
	pub := events.NewInMemory(4)
	drop := &countingDropper{}
	inv := &Invalidator{Pub: pub, Cache: drop, Log: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go inv.Run(ctx)

	pub.PublishPropertyChanged(ctx, events.PropertyChanged{PropertyID: "a", Op: events.OpCreated})
	pub.PublishPropertyChanged(ctx, events.PropertyChanged{PropertyID: "a", Op: events.OpDeleted})

	assert.Eventually(t, func() bool { return drop.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestInvalidator_KeepsRunningAfterFailure(t *testing.T) {
	pub := events.NewInMemory(4)
	drop := &countingDropper{err: errors.New("redis down")}
	inv := &Invalidator{Pub: pub, Cache: drop, Log: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		inv.Run(ctx)
		close(done)
	}()

	pub.PublishPropertyChanged(ctx, events.PropertyChanged{PropertyID: "a", Op: events.OpCreated})
	pub.PublishPropertyChanged(ctx, events.PropertyChanged{PropertyID: "b", Op: events.OpCreated})
	assert.Eventually(t, func() bool { return drop.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("invalidator did not stop")
	}
}
