package services

import (
	"coffeemap-service/internal/domain"
	"errors"
	"math"
	"sync"
)

var ErrEmptyRoute = errors.New("route path is empty")

// PickTargetPosition chooses the path point that best represents what the
// viewport shows: the middle of the visible stretch, or, when nothing is
// visible, the point closest to the viewport center.
//
// The fallback compares raw lat/lng deltas; only relative order matters.
func PickTargetPosition(path domain.RoutePath, v domain.Viewport) (domain.Coordinates, bool) {
	if len(path) == 0 {
		return domain.Coordinates{}, false
	}

	visible := make([]domain.Coordinates, 0, len(path))
	for _, c := range path {
		if v.Contains(c) {
			visible = append(visible, c)
		}
	}
	if len(visible) > 0 {
		return visible[len(visible)/2], true
	}

	center := v.Center()
	closest := path[len(path)/2]
	minDist := math.Inf(1)
	for _, c := range path {
		dLat := c.Lat - center.Lat
		dLon := c.Lon - center.Lon
		if d := math.Sqrt(dLat*dLat + dLon*dLon); d < minDist {
			minDist = d
			closest = c
		}
	}
	return closest, true
}

type TrackerOption func(*RouteMarkerTracker)

// WithFrameHook registers fn to receive the marker position after every
// frame, and whether the marker has reached its target.
func WithFrameHook(fn func(pos domain.Coordinates, settled bool)) TrackerOption {
	return func(t *RouteMarkerTracker) { t.onFrame = fn }
}

// WithEasing overrides the per-frame ease fraction and the snap epsilon.
func WithEasing(ease, epsilon float64) TrackerOption {
	return func(t *RouteMarkerTracker) {
		if ease > 0 && ease <= 1 {
			t.anim.Ease = ease
		}
		if epsilon > 0 {
			t.anim.Epsilon = epsilon
		}
	}
}

// RouteMarkerTracker keeps a floating marker on the visible part of a route
// and animates it toward each newly picked point.
//
// At most one frame is pending at any time. Every (re)schedule bumps gen so
// a frame that already fired but lost the race for mu becomes a no-op.
// The tracker is safe for concurrent use.
type RouteMarkerTracker struct {
	mu        sync.Mutex
	path      domain.RoutePath
	anim      MarkerAnimation
	scheduler FrameScheduler
	frame     FrameHandle
	gen       uint64
	stopped   bool
	onFrame   func(domain.Coordinates, bool)
}

func NewRouteMarkerTracker(path domain.RoutePath, scheduler FrameScheduler, opts ...TrackerOption) (*RouteMarkerTracker, error) {
	mid, ok := path.Midpoint()
	if !ok {
		return nil, ErrEmptyRoute
	}
	if scheduler == nil {
		return nil, errors.New("route tracker: scheduler is nil")
	}

	t := &RouteMarkerTracker{
		path:      append(domain.RoutePath(nil), path...),
		anim:      NewMarkerAnimation(mid),
		scheduler: scheduler,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Update handles a map move or zoom: it picks a new target for v and
// redirects the running animation toward it, returning the new target.
func (t *RouteMarkerTracker) Update(v domain.Viewport) domain.Coordinates {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return t.anim.Target
	}

	target, _ := PickTargetPosition(t.path, v)
	t.anim.Retarget(target)
	t.scheduleLocked()
	return target
}

// Position returns the animated marker position, its target, and whether a
// frame is pending.
func (t *RouteMarkerTracker) Position() (current, target domain.Coordinates, animating bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.anim.Current, t.anim.Target, t.frame != nil
}

// Path returns a copy of the tracked route.
func (t *RouteMarkerTracker) Path() domain.RoutePath {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append(domain.RoutePath(nil), t.path...)
}

// Stop cancels any pending frame. Later updates and frames are ignored.
func (t *RouteMarkerTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.gen++
	if t.frame != nil {
		t.frame.Cancel()
		t.frame = nil
	}
}

func (t *RouteMarkerTracker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *RouteMarkerTracker) scheduleLocked() {
	if t.frame != nil {
		t.frame.Cancel()
	}
	t.gen++
	gen := t.gen
	t.frame = t.scheduler.Schedule(func() { t.runFrame(gen) })
}

func (t *RouteMarkerTracker) runFrame(gen uint64) {
	t.mu.Lock()
	if t.stopped || gen != t.gen {
		t.mu.Unlock()
		return
	}

	more := t.anim.Step()
	pos := t.anim.Current
	settled := t.anim.Settled()
	if more {
		t.scheduleLocked()
	} else {
		t.frame = nil
	}
	hook := t.onFrame
	t.mu.Unlock()

	if hook != nil {
		hook(pos, settled)
	}
}
