package bench

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// trimFraction is the share of samples dropped at each end before
// computing lap statistics.
const trimFraction = 0.2

// Timer records lap durations of a repeated operation.
type Timer struct {
	now   func() time.Time
	start time.Time
	laps  []time.Duration
}

// NewTimer returns a started timer.
func NewTimer() *Timer {
	t := &Timer{now: time.Now}
	t.Restart()
	return t
}

// Restart starts a new lap without recording the current one.
func (t *Timer) Restart() {
	t.start = t.now()
}

// NextLap records the time since the previous lap (or Restart) and starts
// the next one.
func (t *Timer) NextLap() time.Duration {
	now := t.now()
	lap := now.Sub(t.start)
	t.laps = append(t.laps, lap)
	t.start = now
	return lap
}

// Laps returns the recorded laps in order.
func (t *Timer) Laps() []time.Duration {
	return slices.Clone(t.laps)
}

// Summary describes a trimmed sample window, in seconds.
type Summary struct {
	Mean    float64
	Std     float64
	Samples int
	Window  []time.Duration
}

// Summary returns the mean and standard deviation of the middle 60% of the
// laps, dropping the fastest and slowest 20%.
func (t *Timer) Summary() Summary {
	return Summarize(t.laps)
}

// Summarize computes the trimmed statistics of an arbitrary sample set.
func Summarize(laps []time.Duration) Summary {
	window := TrimmedWindow(laps)
	if len(window) == 0 {
		return Summary{}
	}

	secs := make([]float64, len(window))
	for i, d := range window {
		secs[i] = d.Seconds()
	}

	mean, std := stat.MeanStdDev(secs, nil)
	if len(secs) < 2 {
		std = 0
	}
	return Summary{
		Mean:    mean,
		Std:     std,
		Samples: len(laps),
		Window:  window,
	}
}

// TrimmedWindow returns the sorted samples left after dropping the fastest
// and slowest trimFraction of laps.
func TrimmedWindow(laps []time.Duration) []time.Duration {
	sorted := slices.Clone(laps)
	slices.Sort(sorted)

	drop := int(float64(len(sorted)) * trimFraction)
	return sorted[drop : len(sorted)-drop]
}
