package trace

import (
	"github.com/montanaflynn/stats"
)

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Customers    int
	MeanWait     float64
	P50Wait      float64
	P95Wait      float64
	MaxWait      float64
	MeanSojourn  float64
	P95Sojourn   float64
	QueuedCount  int         // customers that waited in a queue
	TellerCounts map[int]int // teller ID → customers served
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TellerCounts: make(map[int]int),
	}
	if st == nil || len(st.Services) == 0 {
		return summary
	}

	waits := make(stats.Float64Data, 0, len(st.Services))
	sojourns := make(stats.Float64Data, 0, len(st.Services))
	for _, r := range st.Services {
		waits = append(waits, r.Wait())
		sojourns = append(sojourns, r.Sojourn())
		summary.TellerCounts[r.Teller]++
		if r.Queue >= 0 {
			summary.QueuedCount++
		}
	}
	summary.Customers = len(st.Services)

	summary.MeanWait = orZero(waits.Mean())
	summary.P50Wait = orZero(waits.Percentile(50))
	summary.P95Wait = orZero(waits.Percentile(95))
	summary.MaxWait = orZero(waits.Max())
	summary.MeanSojourn = orZero(sojourns.Mean())
	summary.P95Sojourn = orZero(sojourns.Percentile(95))
	return summary
}

func orZero(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}
