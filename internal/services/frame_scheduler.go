package services

import (
	"sync"
	"time"
)

// FrameHandle cancels a scheduled frame. Cancel is idempotent.
type FrameHandle interface {
	Cancel()
}

// FrameScheduler runs a callback on the next animation frame.
// Schedule must not invoke fn synchronously.
type FrameScheduler interface {
	Schedule(fn func()) FrameHandle
}

// TimerScheduler paces frames with time.AfterFunc at a fixed interval.
type TimerScheduler struct {
	Interval time.Duration
}

func NewTimerScheduler(interval time.Duration) *TimerScheduler {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &TimerScheduler{Interval: interval}
}

func (s *TimerScheduler) Schedule(fn func()) FrameHandle {
	return &timerFrame{t: time.AfterFunc(s.Interval, fn)}
}

type timerFrame struct {
	once sync.Once
	t    *time.Timer
}

func (f *timerFrame) Cancel() {
	f.once.Do(func() { f.t.Stop() })
}
