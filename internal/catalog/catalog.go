// Package catalog reads and writes the property catalogue. Reads never fail:
// when the data source is unreachable the bundled fallback list is served.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourorg/listings-api/hosted"
	"github.com/yourorg/listings-api/internal/events"
	"github.com/yourorg/listings-api/internal/redisx"
	"github.com/yourorg/listings-api/internal/refresh"
	"github.com/yourorg/listings-api/internal/store"
	"github.com/yourorg/listings-api/listing"
)

const (
	SnapshotKey = "listings:snapshot:v1"
	lockKey     = "listings:snapshot:lock"
	lockTTL     = 10 * time.Second
)

// ErrBusy means another process is rebuilding the snapshot.
var ErrBusy = errors.New("catalog: snapshot rebuild in progress")

// Source is a backend holding the properties table. Both the hosted REST
// client and the SQL store implement it.
type Source interface {
	List(ctx context.Context) ([]listing.RawRecord, error)
	Get(ctx context.Context, id string) (listing.RawRecord, error)
	Insert(ctx context.Context, row listing.NewRow) (listing.RawRecord, error)
	Delete(ctx context.Context, id string) error
}

// Cache stores the mapped catalogue snapshot.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SetNX(ctx context.Context, key string, val string, ttl time.Duration) (bool, error)
}

// Enqueuer schedules a background snapshot rebuild.
type Enqueuer interface {
	Enqueue(j refresh.Job) bool
}

type Service struct {
	Source   Source
	Fallback func() []listing.Property
	Log      zerolog.Logger
	// Dev enables warnings about degraded reads.
	Dev bool

	// Optional snapshot cache.
	Cache      Cache
	Refresher  Enqueuer
	CacheTTL   time.Duration
	StaleAfter time.Duration

	Pub events.Publisher

	now func() time.Time
}

type snapshot struct {
	Properties []listing.Property `json:"properties"`
	FetchedAt  time.Time          `json:"fetched_at"`
	StaleAfter time.Time          `json:"stale_after"`
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Service) fallback() []listing.Property {
	if s.Fallback == nil {
		return listing.Fallback()
	}
	return s.Fallback()
}

func (s *Service) warn(err error, msg string) {
	if s.Dev {
		s.Log.Warn().Err(err).Msg(msg)
	}
}

// GetAll returns every property, newest first. A fresh or stale snapshot is
// served from the cache when there is one; a stale one is rebuilt in the
// background. Any read failure yields the fallback list.
func (s *Service) GetAll(ctx context.Context) []listing.Property {
	if s.Cache != nil {
		var snap snapshot
		err := s.Cache.GetJSON(ctx, SnapshotKey, &snap)
		switch {
		case err == nil:
			if s.clock().After(snap.StaleAfter) && s.Refresher != nil {
				s.Refresher.Enqueue(refresh.Job{Key: SnapshotKey})
			}
			return snap.Properties
		case !errors.Is(err, redisx.ErrMiss):
			s.Log.Debug().Err(err).Msg("snapshot read failed")
		}
	}

	props, err := s.fetch(ctx)
	if err != nil {
		s.warn(err, "property fetch failed, serving fallback data")
		return s.fallback()
	}
	if s.Cache != nil {
		if err := s.store(ctx, props); err != nil {
			s.Log.Warn().Err(err).Msg("snapshot write failed")
		}
	}
	return props
}

// GetByID returns the property with the given id, or nil when neither the
// data source nor the fallback list has it. The error is non-nil only when
// ctx is done.
func (s *Service) GetByID(ctx context.Context, id string) (*listing.Property, error) {
	raw, err := s.Source.Get(ctx, id)
	if err == nil {
		p := listing.MapRecord(raw)
		return &p, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if !isNotFound(err) {
		s.warn(err, "property lookup failed, searching fallback data")
	}
	for _, p := range s.fallback() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

// Create inserts a new active property and returns it as stored.
func (s *Service) Create(ctx context.Context, in CreateInput) (listing.Property, error) {
	raw, err := s.Source.Insert(ctx, in.Row())
	if err != nil {
		return listing.Property{}, fmt.Errorf("create property: %w", err)
	}
	p := listing.MapRecord(raw)
	s.afterWrite(ctx, p.ID, events.OpCreated)
	return p, nil
}

// Delete removes the property with the given id.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.Source.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete property %s: %w", id, err)
	}
	s.afterWrite(ctx, id, events.OpDeleted)
	return true, nil
}

// Refresh rebuilds the cached snapshot from the data source and returns the
// number of properties stored. It returns ErrBusy when another rebuild holds
// the lock.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if s.Cache == nil {
		return 0, errors.New("catalog: refresh requires a cache")
	}
	ok, err := s.Cache.SetNX(ctx, lockKey, "1", lockTTL)
	if err != nil {
		return 0, fmt.Errorf("snapshot lock: %w", err)
	}
	if !ok {
		return 0, ErrBusy
	}
	defer func() { _ = s.Cache.Del(context.WithoutCancel(ctx), lockKey) }()

	props, err := s.fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.store(ctx, props); err != nil {
		return 0, err
	}
	return len(props), nil
}

// RefreshJob adapts Refresh to the refresh worker pool.
func (s *Service) RefreshJob(ctx context.Context, j refresh.Job) {
	n, err := s.Refresh(ctx)
	switch {
	case errors.Is(err, ErrBusy):
		return
	case err != nil:
		s.Log.Warn().Err(err).Str("key", j.Key).Msg("snapshot refresh failed")
	default:
		s.Log.Debug().Int("count", n).Str("key", j.Key).Msg("snapshot refreshed")
	}
}

// Invalidate drops the cached snapshot so the next read goes to the source.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Del(ctx, SnapshotKey)
}

func (s *Service) fetch(ctx context.Context) ([]listing.Property, error) {
	rows, err := s.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return listing.MapRecords(rows), nil
}

func (s *Service) store(ctx context.Context, props []listing.Property) error {
	ttl := maxDur(s.CacheTTL, time.Hour)
	now := s.clock()
	snap := snapshot{
		Properties: props,
		FetchedAt:  now,
		StaleAfter: now.Add(maxDur(s.StaleAfter, 5*time.Minute)),
	}
	if err := s.Cache.SetJSON(ctx, SnapshotKey, snap, ttl); err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	return nil
}

// afterWrite drops the snapshot before returning so the writer's next read
// sees the change; the event lets the invalidator drop it again once any
// rebuild that raced the write has stored its result.
func (s *Service) afterWrite(ctx context.Context, id string, op events.Op) {
	if err := s.Invalidate(ctx); err != nil {
		s.Log.Warn().Err(err).Str("property_id", id).Msg("snapshot invalidation failed")
	}
	s.publish(ctx, id, op)
}

func (s *Service) publish(ctx context.Context, id string, op events.Op) {
	if s.Pub == nil {
		return
	}
	s.Pub.PublishPropertyChanged(ctx, events.PropertyChanged{PropertyID: id, Op: op})
}

func isNotFound(err error) bool {
	return errors.Is(err, hosted.ErrNotFound) || errors.Is(err, store.ErrNotFound)
}

func maxDur(a, b time.Duration) time.Duration {
	if a > 0 {
		return a
	}
	return b
}
