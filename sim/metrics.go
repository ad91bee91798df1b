// Tracks run-wide wait statistics and per-queue length statistics.

package sim

import (
	"github.com/DataDog/sketches-go/ddsketch"
)

// sketchAccuracy is the relative accuracy of the wait-time quantiles.
const sketchAccuracy = 0.01

// QueueStats holds the running statistics of one customer queue.
type QueueStats struct {
	Length     int     // current length
	MaxLength  int     // longest length observed
	Integral   float64 // sum of length x duration up to LastChange
	LastChange float64 // time of the last length change
}

// Average returns the time-weighted mean length over elapsed, the span from
// the start of the run to the end. The stretch after LastChange is not
// included.
func (qs QueueStats) Average(elapsed float64) float64 {
	if elapsed <= 0 {
		return 0
	}
	return qs.Integral / elapsed
}

// Metrics aggregates customer waits for final reporting.
type Metrics struct {
	TotalWait float64 // sum of waits over all served customers
	MaxWait   float64
	Waits     int // number of recorded waits

	sketch *ddsketch.DDSketch
}

// NewMetrics returns empty metrics.
func NewMetrics() *Metrics {
	sketch, err := ddsketch.NewDefaultDDSketch(sketchAccuracy)
	if err != nil {
		panic(err)
	}
	return &Metrics{sketch: sketch}
}

// RecordWait adds the wait of one customer that has started service.
func (m *Metrics) RecordWait(wait float64) {
	m.TotalWait += wait
	m.MaxWait = max(m.MaxWait, wait)
	m.Waits++
	if err := m.sketch.Add(wait); err != nil {
		panic(err)
	}
}

// AverageWait returns the mean recorded wait, or 0 when nothing was recorded.
func (m *Metrics) AverageWait() float64 {
	if m.Waits == 0 {
		return 0
	}
	return m.TotalWait / float64(m.Waits)
}

// WaitQuantiles returns approximate wait times at the given quantiles, or
// zeros when no wait was recorded.
func (m *Metrics) WaitQuantiles(qs ...float64) []float64 {
	if m.Waits == 0 {
		return make([]float64, len(qs))
	}
	res, err := m.sketch.GetValuesAtQuantiles(qs)
	if err != nil {
		panic(err)
	}
	return res
}
