package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemory_DeliversAndDropsWhenFull(t *testing.T) {
	pub := NewInMemory(1)
	ctx := context.Background()

	pub.PublishPropertyChanged(ctx, PropertyChanged{PropertyID: "a", Op: OpCreated})
	pub.PublishPropertyChanged(ctx, PropertyChanged{PropertyID: "b", Op: OpDeleted})

	evt := <-pub.SubscribePropertyChanged()
	assert.Equal(t, "a", evt.PropertyID)
	assert.Equal(t, OpCreated, evt.Op)

	select {
	case extra := <-pub.SubscribePropertyChanged():
		t.Fatalf("unexpected event %+v", extra)
	default:
	}
}
