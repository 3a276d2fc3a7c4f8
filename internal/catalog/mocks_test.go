package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourorg/listings-api/internal/refresh"
	"github.com/yourorg/listings-api/listing"
)

// --- Mocks ---

type MockSource struct {
	mock.Mock
}

func (m *MockSource) List(ctx context.Context) ([]listing.RawRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.RawRecord), args.Error(1)
}

func (m *MockSource) Get(ctx context.Context, id string) (listing.RawRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(listing.RawRecord), args.Error(1)
}

func (m *MockSource) Insert(ctx context.Context, row listing.NewRow) (listing.RawRecord, error) {
	args := m.Called(ctx, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(listing.RawRecord), args.Error(1)
}

func (m *MockSource) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetJSON(ctx context.Context, key string, dst any) error {
	args := m.Called(ctx, key, dst)
	return args.Error(0)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	args := m.Called(ctx, key, v, ttl)
	return args.Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) SetNX(ctx context.Context, key string, val string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, val, ttl)
	return args.Bool(0), args.Error(1)
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []refresh.Job
}

func (f *fakeEnqueuer) Enqueue(j refresh.Job) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, j)
	return true
}

func (f *fakeEnqueuer) Jobs() []refresh.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]refresh.Job(nil), f.jobs...)
}
