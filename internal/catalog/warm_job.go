package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

type WarmConfig struct {
	Interval       time.Duration
	RequestTimeout time.Duration
}

// WarmJob keeps the cached snapshot populated so API requests rarely hit the
// data source directly.
type WarmJob struct {
	Service *Service
	Log     zerolog.Logger
	Config  WarmConfig
}

func (j *WarmJob) validate() error {
	if j == nil {
		return errors.New("nil warm job")
	}
	if j.Service == nil || j.Service.Source == nil {
		return errors.New("warm job requires a service with a source")
	}
	if j.Service.Cache == nil {
		return errors.New("warm job requires a cache")
	}
	return nil
}

func (j *WarmJob) Run(ctx context.Context) error {
	if err := j.validate(); err != nil {
		return err
	}
	interval := j.Config.Interval
	if interval <= 0 {
		return j.RunOnce(ctx)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	j.Log.Info().Dur("interval", interval).Msg("warm job starting")
	if err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		j.Log.Warn().Err(err).Msg("warm job initial run failed")
	}
	for {
		select {
		case <-ctx.Done():
			j.Log.Info().Err(ctx.Err()).Msg("warm job stopping")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				j.Log.Warn().Err(err).Msg("warm job iteration failed")
			}
		}
	}
}

// RunOnce rebuilds the snapshot a single time. A rebuild already running
// elsewhere is not an error.
func (j *WarmJob) RunOnce(ctx context.Context) error {
	if err := j.validate(); err != nil {
		return err
	}
	timeout := j.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	n, err := j.Service.Refresh(reqCtx)
	if errors.Is(err, ErrBusy) {
		j.Log.Debug().Msg("warm job skipped, rebuild already running")
		return nil
	}
	if err != nil {
		return err
	}
	j.Log.Info().Int("count", n).Msg("warm job stored snapshot")
	return nil
}
