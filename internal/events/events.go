package events

import (
	"context"
)

type Op string

const (
	OpCreated Op = "created"
	OpDeleted Op = "deleted"
)

// PropertyChanged is published after a successful write to the catalogue.
type PropertyChanged struct {
	PropertyID string
	Op         Op
}

type Publisher interface {
	PublishPropertyChanged(ctx context.Context, evt PropertyChanged)
	SubscribePropertyChanged() <-chan PropertyChanged
}

type inMemory struct{ ch chan PropertyChanged }

// NewInMemory returns a buffered, single-consumer publisher. Events are
// dropped when the buffer is full.
func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{ch: make(chan PropertyChanged, buffer)}
}

func (m *inMemory) PublishPropertyChanged(_ context.Context, evt PropertyChanged) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribePropertyChanged() <-chan PropertyChanged { return m.ch }
