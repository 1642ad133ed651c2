package views

import (
	"context"
	"sync"
	"time"

	"jobmate/careers-service/internal/counter"
	"jobmate/careers-service/internal/logging"
)

// DefaultIncrementTimeout bounds a dispatched increment when none is configured.
const DefaultIncrementTimeout = 5 * time.Second

// Service mediates every read and write of job view counters.
//
// Counter failures never reach callers: reads degrade to zero and failed
// increments are logged and dropped. Nothing is retried.
type Service struct {
	store            counter.Store
	log              *logging.Logger
	incrementTimeout time.Duration

	inflight sync.WaitGroup
}

// NewService returns a Service backed by store. A non-positive
// incrementTimeout falls back to DefaultIncrementTimeout.
func NewService(store counter.Store, log *logging.Logger, incrementTimeout time.Duration) *Service {
	if incrementTimeout <= 0 {
		incrementTimeout = DefaultIncrementTimeout
	}
	return &Service{
		store:            store,
		log:              log.With("component", "views"),
		incrementTimeout: incrementTimeout,
	}
}

// RecordView adds one view to the job's counter.
//
// RecordView is not idempotent: every call counts. Callers trigger it once
// per genuine page view; retries and re-mounts over-count.
func (s *Service) RecordView(ctx context.Context, shortcode string) {
	if err := ValidateShortcode(shortcode); err != nil {
		s.log.Warn("record view rejected", "shortcode", shortcode, "err", err)
		return
	}

	n, err := s.store.IncrementBy(ctx, Key(shortcode), 1)
	if err != nil {
		s.log.Error("record view failed", "shortcode", shortcode, "err", err)
		return
	}
	s.log.Debug("view recorded", "shortcode", shortcode, "views", n)
}

// Dispatch records a view in the background and returns immediately.
// The increment outlives ctx's cancellation but is bounded by the service's
// increment timeout.
func (s *Service) Dispatch(ctx context.Context, shortcode string) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.incrementTimeout)
		defer cancel()
		s.RecordView(ctx, shortcode)
	}()
}

// Wait blocks until every dispatched increment has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}

// GetView returns the job's view count, or 0 when it was never viewed or the
// store is unavailable.
func (s *Service) GetView(ctx context.Context, shortcode string) int64 {
	if err := ValidateShortcode(shortcode); err != nil {
		return 0
	}

	n, ok, err := s.store.Get(ctx, Key(shortcode))
	if err != nil {
		s.log.Error("get view failed", "shortcode", shortcode, "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	return n
}

// GetViews returns the view count for each shortcode in one store round trip.
// Shortcodes never viewed map to 0; if the store fails, every shortcode maps
// to 0.
func (s *Service) GetViews(ctx context.Context, shortcodes []string) map[string]int64 {
	out := make(map[string]int64, len(shortcodes))
	if len(shortcodes) == 0 {
		return out
	}

	keys := make([]string, 0, len(shortcodes))
	valid := make([]string, 0, len(shortcodes))
	for _, sc := range shortcodes {
		out[sc] = 0
		if ValidateShortcode(sc) != nil {
			continue
		}
		keys = append(keys, Key(sc))
		valid = append(valid, sc)
	}
	if len(keys) == 0 {
		return out
	}

	vals, err := s.store.MultiGet(ctx, keys)
	if err != nil {
		s.log.Error("get views failed", "count", len(keys), "err", err)
		return out
	}
	for i, v := range vals {
		if i < len(valid) && v.OK {
			out[valid[i]] = v.N
		}
	}
	return out
}
