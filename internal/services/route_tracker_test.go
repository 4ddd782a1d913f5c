package services

import (
	"coffeemap-service/internal/domain"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler queues frames until the test runs them explicitly.
type manualScheduler struct {
	mu    sync.Mutex
	queue []*manualFrame
}

type manualFrame struct {
	fn        func()
	cancelled bool
}

func (f *manualFrame) Cancel() { f.cancelled = true }

func (s *manualScheduler) Schedule(fn func()) FrameHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &manualFrame{fn: fn}
	s.queue = append(s.queue, f)
	return f
}

// RunFrame runs the next live frame and reports whether one ran.
func (s *manualScheduler) RunFrame() bool {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return false
		}
		f := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if f.cancelled {
			continue
		}
		f.fn()
		return true
	}
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.queue {
		if !f.cancelled {
			n++
		}
	}
	return n
}

func (s *manualScheduler) RunUntilIdle(maxFrames int) int {
	n := 0
	for n < maxFrames && s.RunFrame() {
		n++
	}
	return n
}

// A west-to-east route along the equator, one point per 0.1 degree.
func straightRoute(points int) domain.RoutePath {
	path := make(domain.RoutePath, 0, points)
	for i := 0; i < points; i++ {
		path = append(path, domain.Coordinates{Lat: 0, Lon: float64(i) * 0.1})
	}
	return path
}

func around(c domain.Coordinates, half float64) domain.Viewport {
	return domain.Viewport{South: c.Lat - half, North: c.Lat + half, West: c.Lon - half, East: c.Lon + half}
}

func dist(a, b domain.Coordinates) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}

func TestMarkerAnimationStep(t *testing.T) {
	a := NewMarkerAnimation(domain.Coordinates{})
	a.Retarget(domain.Coordinates{Lat: 1, Lon: -1})

	more := a.Step()
	assert.True(t, more)
	assert.InDelta(t, 0.04, a.Current.Lat, 1e-12)
	assert.InDelta(t, -0.04, a.Current.Lon, 1e-12)
}

func TestMarkerAnimationSnapsWithinEpsilon(t *testing.T) {
	a := NewMarkerAnimation(domain.Coordinates{})
	a.Retarget(domain.Coordinates{Lat: 0.000001})

	assert.False(t, a.Step())
	assert.True(t, a.Settled())
	assert.Equal(t, domain.Coordinates{Lat: 0.000001}, a.Current)
}

func TestPickTargetPositionWholeRouteVisible(t *testing.T) {
	path := straightRoute(9)
	v, _ := path.Bounds()

	got, ok := PickTargetPosition(path, v)
	require.True(t, ok)
	assert.Equal(t, path[4], got)

	got, _ = PickTargetPosition(path[:8], domain.Viewport{South: -90, North: 90, West: -180, East: 180})
	assert.Equal(t, path[4], got)
}

func TestPickTargetPositionMiddleOfVisibleStretch(t *testing.T) {
	path := straightRoute(10)
	// Points 0.6 .. 0.9 are visible.
	v := domain.Viewport{South: -1, North: 1, West: 0.55, East: 2}

	got, _ := PickTargetPosition(path, v)
	assert.Equal(t, path[8], got)
}

func TestPickTargetPositionFallsBackToNearestPoint(t *testing.T) {
	path := straightRoute(10)
	// Box north of the route, centered above lon 0.3.
	v := domain.Viewport{South: 1, North: 2, West: 0.2, East: 0.42}

	got, _ := PickTargetPosition(path, v)
	assert.Equal(t, path[3], got)

	center := v.Center()
	for _, c := range path {
		assert.LessOrEqual(t, dist(got, center), dist(c, center))
	}
}

func TestPickTargetPositionEmptyPath(t *testing.T) {
	_, ok := PickTargetPosition(nil, domain.Viewport{})
	assert.False(t, ok)
}

func TestNewRouteMarkerTrackerRejectsEmptyRoute(t *testing.T) {
	_, err := NewRouteMarkerTracker(nil, &manualScheduler{})
	assert.ErrorIs(t, err, ErrEmptyRoute)
}

func TestTrackerStartsAtMidpoint(t *testing.T) {
	path := straightRoute(7)
	tr, err := NewRouteMarkerTracker(path, &manualScheduler{})
	require.NoError(t, err)

	current, target, animating := tr.Position()
	assert.Equal(t, path[3], current)
	assert.Equal(t, path[3], target)
	assert.False(t, animating)
}

func TestTrackerConvergesAndStops(t *testing.T) {
	path := domain.RoutePath{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}}
	sched := &manualScheduler{}
	tr, err := NewRouteMarkerTracker(path, sched)
	require.NoError(t, err)

	start, _, _ := tr.Position()
	require.Equal(t, path[1], start)

	target := tr.Update(around(path[0], 0.5))
	require.Equal(t, path[0], target)
	require.InDelta(t, 1.0, dist(start, target), 1e-12)

	frames := sched.RunUntilIdle(2000)
	assert.Greater(t, frames, 100)
	assert.Less(t, frames, 2000)

	current, _, animating := tr.Position()
	assert.Less(t, dist(current, target), DefaultEpsilon)
	assert.Equal(t, target, current)
	assert.False(t, animating)
	assert.Zero(t, sched.Pending())
	assert.False(t, sched.RunFrame())
}

func TestTrackerKeepsSingleFramePending(t *testing.T) {
	path := straightRoute(10)
	sched := &manualScheduler{}
	tr, err := NewRouteMarkerTracker(path, sched)
	require.NoError(t, err)

	tr.Update(around(path[0], 0.01))
	tr.Update(around(path[9], 0.01))
	tr.Update(around(path[1], 0.01))
	assert.Equal(t, 1, sched.Pending())

	sched.RunFrame()
	assert.Equal(t, 1, sched.Pending())
}

func TestTrackerRetargetsWithoutReset(t *testing.T) {
	path := straightRoute(10)
	sched := &manualScheduler{}
	tr, err := NewRouteMarkerTracker(path, sched)
	require.NoError(t, err)

	tr.Update(around(path[0], 0.01))
	for i := 0; i < 20; i++ {
		require.True(t, sched.RunFrame())
	}

	before, _, animating := tr.Position()
	require.True(t, animating)
	require.NotEqual(t, path[5], before)
	require.NotEqual(t, path[0], before)

	newTarget := tr.Update(around(path[9], 0.01))
	assert.Equal(t, path[9], newTarget)

	after, target, _ := tr.Position()
	assert.Equal(t, before, after)
	assert.Equal(t, path[9], target)

	sched.RunFrame()
	moved, _, _ := tr.Position()
	assert.Greater(t, moved.Lon, before.Lon)
}

func TestTrackerStopCancelsPendingFrame(t *testing.T) {
	path := straightRoute(10)
	sched := &manualScheduler{}
	var hookCalls int
	tr, err := NewRouteMarkerTracker(path, sched, WithFrameHook(func(domain.Coordinates, bool) { hookCalls++ }))
	require.NoError(t, err)

	tr.Update(around(path[0], 0.01))
	sched.RunFrame()
	require.Equal(t, 1, hookCalls)

	tr.Stop()
	assert.True(t, tr.Stopped())
	assert.Zero(t, sched.Pending())
	assert.False(t, sched.RunFrame())

	before, _, animating := tr.Position()
	assert.False(t, animating)

	tr.Update(around(path[9], 0.01))
	assert.Zero(t, sched.Pending())
	after, _, _ := tr.Position()
	assert.Equal(t, before, after)
	assert.Equal(t, 1, hookCalls)
}

func TestTrackerFrameHookSeesEveryFrame(t *testing.T) {
	path := straightRoute(3)
	sched := &manualScheduler{}
	var seen []domain.Coordinates
	var settledAt []int
	tr, err := NewRouteMarkerTracker(path, sched, WithFrameHook(func(c domain.Coordinates, settled bool) {
		if settled {
			settledAt = append(settledAt, len(seen))
		}
		seen = append(seen, c)
	}))
	require.NoError(t, err)

	tr.Update(around(path[0], 0.01))
	frames := sched.RunUntilIdle(5000)

	require.Len(t, seen, frames)
	assert.Equal(t, path[0], seen[len(seen)-1])
	// Only the final frame reports the marker as settled.
	assert.Equal(t, []int{frames - 1}, settledAt)
}

func TestTrackerWithTimerScheduler(t *testing.T) {
	path := straightRoute(10)
	tr, err := NewRouteMarkerTracker(path, NewTimerScheduler(time.Millisecond), WithEasing(0.5, 1e-6))
	require.NoError(t, err)
	defer tr.Stop()

	target := tr.Update(around(path[0], 0.01))

	require.Eventually(t, func() bool {
		current, _, animating := tr.Position()
		return !animating && current == target
	}, 5*time.Second, 5*time.Millisecond)
}

func TestTrackerPathIsCopied(t *testing.T) {
	path := straightRoute(3)
	tr, err := NewRouteMarkerTracker(path, &manualScheduler{})
	require.NoError(t, err)

	path[0] = domain.Coordinates{Lat: 50}
	assert.Equal(t, 0.0, tr.Path()[0].Lat)
}
