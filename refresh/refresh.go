// Package refresh re-fetches remote resources on a fixed interval. A cycle
// whose predecessor is still running is skipped rather than overlapped, and a
// response arriving after a newer request was issued for the same resource is
// discarded: the last request issued wins, not the last response to arrive.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	apperrors "github.com/postpilot/dashboard/internal/errors"
)

// Resource holds the latest applied value of one remote collection.
type Resource[T any] struct {
	fetch func(context.Context) (T, error)

	lock   sync.Mutex
	latest uuid.UUID
	value  T
	loaded bool
}

// NewResource wraps a fetch function for one remote collection.
func NewResource[T any](fetch func(context.Context) (T, error)) *Resource[T] {
	return &Resource[T]{fetch: fetch}
}

// Refresh issues a fetch and applies the result only if no newer fetch was
// issued for this resource in the meantime. A superseded result is discarded
// and reported as ErrSuperseded, successful or not.
func (r *Resource[T]) Refresh(ctx context.Context) error {
	id := uuid.New()
	r.lock.Lock()
	r.latest = id
	r.lock.Unlock()

	value, err := r.fetch(ctx)

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.latest != id {
		return apperrors.ErrSuperseded
	}
	if err != nil {
		return errors.Wrap(err, "[Resource.Refresh] fetch")
	}
	r.value = value
	r.loaded = true
	return nil
}

// Get returns the last applied value and whether any fetch has succeeded yet.
func (r *Resource[T]) Get() (T, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.value, r.loaded
}

// Refresher runs refresh jobs on fixed intervals. Jobs are wrapped with
// SkipIfStillRunning: a tick firing while the previous run is in flight skips
// the cycle instead of stacking requests.
type Refresher struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// NewRefresher creates a stopped Refresher; call Start once jobs are added.
func NewRefresher(log zerolog.Logger) *Refresher {
	return &Refresher{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(&log)))),
		log:  log,
	}
}

// Add schedules fn every interval under the given resource name.
func (r *Refresher) Add(name string, every time.Duration, fn func(context.Context) error) error {
	_, err := r.cron.AddFunc(fmt.Sprintf("@every %s", every), func() {
		if err := fn(context.Background()); err != nil {
			if apperrors.Is(err, apperrors.ErrSuperseded) {
				r.log.Debug().Str("resource", name).Msg("refresh superseded")
				return
			}
			r.log.Error().Err(err).Str("resource", name).Msg("refresh failed")
		}
	})
	return errors.Wrapf(err, "[Refresher.Add] schedule %s", name)
}

// Start begins running scheduled jobs.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for in-flight jobs, bounded by ctx.
func (r *Refresher) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
