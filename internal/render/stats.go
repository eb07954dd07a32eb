package render

import "time"

const statsWindow = time.Second

// Stats are rolling performance counters, republished once per second.
type Stats struct {
	FrameTime   time.Duration // mean over the last window
	FPS         float64
	VisiblePOIs int
}

type statsRoller struct {
	start     time.Time
	frames    int
	busy      time.Duration
	published Stats
}

// record adds one frame and reports whether a new Stats was published.
func (s *statsRoller) record(now time.Time, took time.Duration, visible int) bool {
	if s.start.IsZero() {
		s.start = now
	}
	s.frames++
	s.busy += took
	elapsed := now.Sub(s.start)
	if elapsed < statsWindow {
		return false
	}
	s.published = Stats{
		FrameTime:   s.busy / time.Duration(s.frames),
		FPS:         float64(s.frames) / elapsed.Seconds(),
		VisiblePOIs: visible,
	}
	s.start, s.frames, s.busy = now, 0, 0
	return true
}
