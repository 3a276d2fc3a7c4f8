package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/listings-api/hosted"
	"github.com/yourorg/listings-api/internal/events"
	"github.com/yourorg/listings-api/internal/redisx"
	"github.com/yourorg/listings-api/internal/refresh"
	"github.com/yourorg/listings-api/internal/store"
	"github.com/yourorg/listings-api/listing"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(src Source) *Service {
	return &Service{
		Source:   src,
		Fallback: func() []listing.Property { return nil },
		Log:      zerolog.Nop(),
		now:      func() time.Time { return fixedNow },
	}
}

func fallbackOf(props ...listing.Property) func() []listing.Property {
	return func() []listing.Property { return append([]listing.Property(nil), props...) }
}

func TestGetAll_MapsSourceRows(t *testing.T) {
	src := new(MockSource)
	src.On("List", mock.Anything).Return([]listing.RawRecord{
		{"id": "b", "title": "Newest", "price": 900, "is_active": true},
		{"id": "a", "title": "Older"},
	}, nil)

	props := newService(src).GetAll(context.Background())

	require.Len(t, props, 2)
	assert.Equal(t, "b", props[0].ID)
	assert.Equal(t, "$900", props[0].Price)
	assert.Equal(t, listing.StatusAvailable, props[0].Status)
	assert.Equal(t, listing.StatusOccupied, props[1].Status)
	src.AssertExpectations(t)
}

func TestGetAll_SourceErrorServesFallback(t *testing.T) {
	src := new(MockSource)
	src.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := newService(src)
	svc.Dev = true
	svc.Fallback = fallbackOf(listing.Property{ID: "mock-1"}, listing.Property{ID: "mock-2"})

	props := svc.GetAll(context.Background())

	require.Len(t, props, 2)
	assert.Equal(t, "mock-1", props[0].ID)
}

func TestGetAll_DefaultFallbackIsBundledList(t *testing.T) {
	src := new(MockSource)
	src.On("List", mock.Anything).Return(nil, errors.New("down"))

	svc := &Service{Source: src, Log: zerolog.Nop()}
	assert.Equal(t, listing.Fallback(), svc.GetAll(context.Background()))
}

func TestGetByID_Found(t *testing.T) {
	src := new(MockSource)
	src.On("Get", mock.Anything, "p1").Return(listing.RawRecord{"id": "p1", "title": "Oak"}, nil)

	p, err := newService(src).GetByID(context.Background(), "p1")

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Oak", p.Title)
}

func TestGetByID_NotFoundWithEmptyFallbackIsNil(t *testing.T) {
	for name, notFound := range map[string]error{
		"hosted": hosted.ErrNotFound,
		"store":  store.ErrNotFound,
	} {
		t.Run(name, func(t *testing.T) {
			src := new(MockSource)
			src.On("Get", mock.Anything, "nonexistent").Return(nil, notFound)

			p, err := newService(src).GetByID(context.Background(), "nonexistent")

			assert.NoError(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestGetByID_ErrorSearchesFallback(t *testing.T) {
	src := new(MockSource)
	src.On("Get", mock.Anything, "mock-2").Return(nil, errors.New("timeout"))

	svc := newService(src)
	svc.Fallback = fallbackOf(listing.Property{ID: "mock-1"}, listing.Property{ID: "mock-2", Title: "Backup"})

	p, err := svc.GetByID(context.Background(), "mock-2")

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Backup", p.Title)
}

func TestGetByID_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := new(MockSource)
	src.On("Get", mock.Anything, "p1").Return(nil, context.Canceled)

	p, err := newService(src).GetByID(ctx, "p1")

	assert.Nil(t, p)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCreate_InsertsCoercedRowAndPublishes(t *testing.T) {
	src := new(MockSource)
	src.On("Insert", mock.Anything, mock.MatchedBy(func(row listing.NewRow) bool {
		return row.Price == 1200 && row.Beds == 3 && row.Baths == 1 && row.City == DefaultCity && row.IsActive
	})).Return(listing.RawRecord{"id": "new-1", "title": "Fresh", "price": 1200, "is_active": true}, nil)

	pub := events.NewInMemory(4)
	svc := newService(src)
	svc.Pub = pub

	p, err := svc.Create(context.Background(), CreateInput{Title: "Fresh", Price: "$1,200.00", Beds: "3"})

	require.NoError(t, err)
	assert.Equal(t, "new-1", p.ID)
	assert.Equal(t, "$1,200", p.Price)
	assert.Equal(t, events.PropertyChanged{PropertyID: "new-1", Op: events.OpCreated}, <-pub.SubscribePropertyChanged())
	src.AssertExpectations(t)
}

func TestCreate_InsertFailureIsReturned(t *testing.T) {
	boom := errors.New("permission denied")
	src := new(MockSource)
	src.On("Insert", mock.Anything, mock.Anything).Return(nil, boom)

	pub := events.NewInMemory(4)
	svc := newService(src)
	svc.Pub = pub

	_, err := svc.Create(context.Background(), CreateInput{Title: "x"})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, pub.SubscribePropertyChanged())
}

func TestDelete(t *testing.T) {
	src := new(MockSource)
	src.On("Delete", mock.Anything, "p1").Return(nil)
	src.On("Delete", mock.Anything, "p2").Return(errors.New("rls"))

	svc := newService(src)

	ok, err := svc.Delete(context.Background(), "p1")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(context.Background(), "p2")
	assert.Error(t, err)
	assert.False(t, ok)
}

func cachedSnapshot(staleAfter time.Time, props ...listing.Property) func(mock.Arguments) {
	return func(args mock.Arguments) {
		*args.Get(2).(*snapshot) = snapshot{Properties: props, FetchedAt: fixedNow.Add(-time.Minute), StaleAfter: staleAfter}
	}
}

func TestGetAll_FreshSnapshotSkipsSource(t *testing.T) {
	src := new(MockSource)
	cache := new(MockCache)
	cache.On("GetJSON", mock.Anything, SnapshotKey, mock.Anything).
		Run(cachedSnapshot(fixedNow.Add(time.Minute), listing.Property{ID: "cached"})).
		Return(nil)
	enq := &fakeEnqueuer{}

	svc := newService(src)
	svc.Cache = cache
	svc.Refresher = enq

	props := svc.GetAll(context.Background())

	require.Len(t, props, 1)
	assert.Equal(t, "cached", props[0].ID)
	assert.Empty(t, enq.Jobs())
	src.AssertNotCalled(t, "List", mock.Anything)
}

func TestGetAll_StaleSnapshotServedAndRefreshed(t *testing.T) {
	cache := new(MockCache)
	cache.On("GetJSON", mock.Anything, SnapshotKey, mock.Anything).
		Run(cachedSnapshot(fixedNow.Add(-time.Second), listing.Property{ID: "old"})).
		Return(nil)
	enq := &fakeEnqueuer{}

	svc := newService(new(MockSource))
	svc.Cache = cache
	svc.Refresher = enq

	props := svc.GetAll(context.Background())

	require.Len(t, props, 1)
	assert.Equal(t, "old", props[0].ID)
	assert.Equal(t, []refresh.Job{{Key: SnapshotKey}}, enq.Jobs())
}

func TestGetAll_MissFetchesAndStores(t *testing.T) {
	src := new(MockSource)
	src.On("List", mock.Anything).Return([]listing.RawRecord{{"id": "p1"}}, nil)
	cache := new(MockCache)
	cache.On("GetJSON", mock.Anything, SnapshotKey, mock.Anything).Return(redisx.ErrMiss)
	cache.On("SetJSON", mock.Anything, SnapshotKey, mock.MatchedBy(func(s snapshot) bool {
		return len(s.Properties) == 1 && s.StaleAfter.Equal(fixedNow.Add(5*time.Minute))
	}), time.Hour).Return(nil)

	svc := newService(src)
	svc.Cache = cache

	props := svc.GetAll(context.Background())

	require.Len(t, props, 1)
	cache.AssertExpectations(t)
}

func TestGetAll_FallbackIsNeverCached(t *testing.T) {
	src := new(MockSource)
	src.On("List", mock.Anything).Return(nil, errors.New("down"))
	cache := new(MockCache)
	cache.On("GetJSON", mock.Anything, SnapshotKey, mock.Anything).Return(redisx.ErrMiss)

	svc := newService(src)
	svc.Cache = cache
	svc.Fallback = fallbackOf(listing.Property{ID: "mock-1"})

	props := svc.GetAll(context.Background())

	require.Len(t, props, 1)
	cache.AssertNotCalled(t, "SetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAll_CacheErrorFallsThroughToSource(t *testing.T) {
	src := new(MockSource)
	src.On("List", mock.Anything).Return([]listing.RawRecord{{"id": "p1"}}, nil)
	cache := new(MockCache)
	cache.On("GetJSON", mock.Anything, SnapshotKey, mock.Anything).Return(errors.New("redis down"))
	cache.On("SetJSON", mock.Anything, SnapshotKey, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := newService(src)
	svc.Cache = cache

	props := svc.GetAll(context.Background())

	require.Len(t, props, 1)
	assert.Equal(t, "p1", props[0].ID)
}

func TestRefresh(t *testing.T) {
	src := new(MockSource)
	src.On("List", mock.Anything).Return([]listing.RawRecord{{"id": "p1"}, {"id": "p2"}}, nil)
	cache := new(MockCache)
	cache.On("SetNX", mock.Anything, lockKey, "1", lockTTL).Return(true, nil)
	cache.On("SetJSON", mock.Anything, SnapshotKey, mock.Anything, 2*time.Hour).Return(nil)
	cache.On("Del", mock.Anything, []string{lockKey}).Return(nil)

	svc := newService(src)
	svc.Cache = cache
	svc.CacheTTL = 2 * time.Hour

	n, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	cache.AssertExpectations(t)
}

func TestRefresh_Busy(t *testing.T) {
	cache := new(MockCache)
	cache.On("SetNX", mock.Anything, lockKey, "1", lockTTL).Return(false, nil)
	src := new(MockSource)

	svc := newService(src)
	svc.Cache = cache

	_, err := svc.Refresh(context.Background())

	assert.ErrorIs(t, err, ErrBusy)
	src.AssertNotCalled(t, "List", mock.Anything)
}

func TestRefresh_SourceErrorKeepsOldSnapshot(t *testing.T) {
	src := new(MockSource)
	src.On("List", mock.Anything).Return(nil, errors.New("down"))
	cache := new(MockCache)
	cache.On("SetNX", mock.Anything, lockKey, "1", lockTTL).Return(true, nil)
	cache.On("Del", mock.Anything, []string{lockKey}).Return(nil)

	svc := newService(src)
	svc.Cache = cache

	_, err := svc.Refresh(context.Background())

	assert.Error(t, err)
	cache.AssertNotCalled(t, "SetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_RequiresCache(t *testing.T) {
	_, err := newService(new(MockSource)).Refresh(context.Background())
	assert.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	cache := new(MockCache)
	cache.On("Del", mock.Anything, []string{SnapshotKey}).Return(nil)

	svc := newService(new(MockSource))
	assert.NoError(t, svc.Invalidate(context.Background()))

	svc.Cache = cache
	assert.NoError(t, svc.Invalidate(context.Background()))
	cache.AssertExpectations(t)
}

func TestWrites_DropSnapshotBeforeReturning(t *testing.T) {
	src := new(MockSource)
	src.On("Insert", mock.Anything, mock.Anything).Return(listing.RawRecord{"id": "new-1"}, nil)
	src.On("Delete", mock.Anything, "p1").Return(nil)
	src.On("List", mock.Anything).Return([]listing.RawRecord{{"id": "new-1"}}, nil)
	cache := new(MockCache)
	cache.On("Del", mock.Anything, []string{SnapshotKey}).Return(nil).Twice()

	svc := newService(src)
	svc.Cache = cache

	_, err := svc.Create(context.Background(), CreateInput{Title: "Fresh"})
	require.NoError(t, err)
	_, err = svc.Delete(context.Background(), "p1")
	require.NoError(t, err)

	cache.AssertNumberOfCalls(t, "Del", 2)
	src.AssertNotCalled(t, "List", mock.Anything)
}

func TestWrites_InvalidationFailureDoesNotFailWrite(t *testing.T) {
	src := new(MockSource)
	src.On("Delete", mock.Anything, "p1").Return(nil)
	cache := new(MockCache)
	cache.On("Del", mock.Anything, []string{SnapshotKey}).Return(errors.New("redis down"))

	svc := newService(src)
	svc.Cache = cache

	ok, err := svc.Delete(context.Background(), "p1")
	assert.NoError(t, err)
	assert.True(t, ok)
}
