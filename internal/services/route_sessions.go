package services

import (
	"coffeemap-service/internal/domain"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RouteSession is one active "route mode": a fetched route plus the marker
// tracker following it.
type RouteSession struct {
	ID      string
	ShopID  string
	Route   domain.Route
	Tracker *RouteMarkerTracker

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *RouteSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *RouteSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// RouteSessions owns every active tracker. Sessions untouched for longer
// than ttl are stopped and removed by a background sweeper.
type RouteSessions struct {
	scheduler   FrameScheduler
	ttl         time.Duration
	logger      *zap.Logger
	now         func() time.Time
	trackerOpts []TrackerOption

	mu       sync.Mutex
	sessions map[string]*RouteSession

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRouteSessions applies trackerOpts to every tracker it starts.
func NewRouteSessions(scheduler FrameScheduler, ttl time.Duration, logger *zap.Logger, trackerOpts ...TrackerOption) *RouteSessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	r := &RouteSessions{
		scheduler:   scheduler,
		ttl:         ttl,
		logger:      logger,
		now:         time.Now,
		trackerOpts: trackerOpts,
		sessions:    make(map[string]*RouteSession),
		done:        make(chan struct{}),
	}

	r.wg.Add(1)
	go r.sweepLoop()

	return r
}

// Start activates route mode for route and runs the initial recompute
// against viewport. A nil viewport means the map was fitted to the route.
func (r *RouteSessions) Start(route domain.Route, shopID string, viewport *domain.Viewport) (*RouteSession, error) {
	id := uuid.NewString()
	logger := r.logger.With(zap.String("session_id", id))
	opts := append(append([]TrackerOption(nil), r.trackerOpts...),
		WithFrameHook(func(pos domain.Coordinates, settled bool) {
			if settled {
				logger.Debug("route marker settled", zap.Float64("lat", pos.Lat), zap.Float64("lng", pos.Lon))
			}
		}),
	)

	tracker, err := NewRouteMarkerTracker(route.Path, r.scheduler, opts...)
	if err != nil {
		return nil, fmt.Errorf("start route session: %w", err)
	}

	v, _ := route.Path.Bounds()
	if viewport != nil {
		v = *viewport
	}
	tracker.Update(v)

	s := &RouteSession{
		ID:       id,
		ShopID:   shopID,
		Route:    route,
		Tracker:  tracker,
		lastSeen: r.now(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	logger.Debug("route session started",
		zap.String("shop_id", shopID),
		zap.Int("points", len(route.Path)),
	)
	return s, nil
}

// Get returns the session and marks it as recently used. A session whose
// tracker was already stopped counts as gone.
func (r *RouteSessions) Get(id string) (*RouteSession, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok || s.Tracker.Stopped() {
		return nil, fmt.Errorf("route session %q: %w", id, domain.ErrNotFound)
	}
	s.touch(r.now())
	return s, nil
}

// Dismiss clears route mode: the tracker is stopped and the session dropped.
func (r *RouteSessions) Dismiss(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("route session %q: %w", id, domain.ErrNotFound)
	}
	s.Tracker.Stop()
	return nil
}

func (r *RouteSessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle since before now-ttl and returns how many.
func (r *RouteSessions) Sweep(now time.Time) int {
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	expired := make([]*RouteSession, 0)
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Tracker.Stop()
	}
	return len(expired)
}

// Close stops the sweeper and every remaining tracker.
func (r *RouteSessions) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()

		r.mu.Lock()
		for id, s := range r.sessions {
			s.Tracker.Stop()
			delete(r.sessions, id)
		}
		r.mu.Unlock()
	})
}

func (r *RouteSessions) sweepLoop() {
	defer r.wg.Done()

	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				r.logger.Info("expired route sessions", zap.Int("count", n))
			}
		}
	}
}
