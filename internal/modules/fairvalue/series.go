package fairvalue

import (
	"math"
	"time"
)

// dailyIndex returns a continuous daily date range from start to end
// inclusive, normalized to midnight UTC.
func dailyIndex(start, end time.Time) []time.Time {
	start = midnight(start)
	end = midnight(end)
	if end.Before(start) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nearestIndex finds the position in a daily index closest to t.
// Assumes a non-empty, contiguous daily index.
func nearestIndex(dates []time.Time, t time.Time) int {
	days := int(midnight(t).Sub(dates[0]).Hours() / 24)
	if days < 0 {
		return 0
	}
	if days >= len(dates) {
		return len(dates) - 1
	}
	return days
}

// interpolateTime fills NaN gaps between known points with
// time-weighted linear interpolation, then forward/backward-fills the
// edges. The index is daily, so day distance is position distance.
func interpolateTime(values []float64) {
	prev := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			step := (values[i] - values[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				values[j] = values[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}

	// Forward-fill after the last known point.
	last := math.NaN()
	for i, v := range values {
		if !math.IsNaN(v) {
			last = v
		} else if !math.IsNaN(last) {
			values[i] = last
		}
	}

	// Backward-fill before the first known point.
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			next = values[i]
		} else if !math.IsNaN(next) {
			values[i] = next
		}
	}
}
