// sim/report.go
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/aclements/go-moremath/stats"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Report is the end-of-run analysis of one simulation.
type Report struct {
	Mode             string  `json:"mode"`
	ElapsedTime      float64 `json:"elapsed_time"`
	CustomersServed  int     `json:"customers_served"`
	TotalIdleTime    float64 `json:"total_idle_time"`
	AvgServiceTime   float64 `json:"avg_service_time"`
	AvgWaitTime      float64 `json:"avg_wait_time"`
	MaxWaitTime      float64 `json:"max_wait_time"`
	WaitP50          float64 `json:"wait_p50"`
	WaitP90          float64 `json:"wait_p90"`
	WaitP99          float64 `json:"wait_p99"`
	AvgQueueLength   float64 `json:"avg_queue_length"`
	MaxQueueLength   int     `json:"max_queue_length"`
	UtilisationMean  float64 `json:"utilisation_mean"`
	UtilisationStdev float64 `json:"utilisation_stdev"`
	EventsProcessed  int     `json:"events_processed"`
	LateArrivals     int     `json:"late_arrivals"`

	Queues  []QueueReport  `json:"queues"`
	Tellers []TellerReport `json:"tellers"`
}

// QueueReport summarises one customer queue.
type QueueReport struct {
	Index     int     `json:"index"`
	AvgLength float64 `json:"avg_length"`
	MaxLength int     `json:"max_length"`
}

// TellerReport summarises one teller.
type TellerReport struct {
	ID              int     `json:"id"`
	CustomersServed int     `json:"customers_served"`
	IdleTime        float64 `json:"idle_time"`
	ServiceTime     float64 `json:"service_time"`
	Utilisation     float64 `json:"utilisation"`
}

// Analyse builds the report for the current simulator state. Elapsed time
// runs from StartTime to the clock. Ratios with a zero denominator are
// reported as 0.
func (sim *Simulator) Analyse() *Report {
	elapsed := sim.Clock - sim.StartTime
	r := &Report{
		Mode:            sim.Mode.String(),
		ElapsedTime:     elapsed,
		AvgWaitTime:     sim.Metrics.AverageWait(),
		MaxWaitTime:     sim.Metrics.MaxWait,
		EventsProcessed: sim.EventsProcessed,
		LateArrivals:    sim.LateArrivals,
	}
	q := sim.Metrics.WaitQuantiles(0.5, 0.9, 0.99)
	r.WaitP50, r.WaitP90, r.WaitP99 = q[0], q[1], q[2]

	totalService := 0.0
	util := stats.Sample{}
	for _, t := range sim.Tellers {
		tr := TellerReport{
			ID:              t.ID,
			CustomersServed: t.CustomersServed(),
			IdleTime:        t.IdleTime(),
			ServiceTime:     t.ServiceTime(),
		}
		if elapsed > 0 {
			tr.Utilisation = t.ServiceTime() / elapsed
		}
		r.CustomersServed += tr.CustomersServed
		r.TotalIdleTime += tr.IdleTime
		totalService += tr.ServiceTime
		util.Xs = append(util.Xs, tr.Utilisation)
		r.Tellers = append(r.Tellers, tr)
	}
	if r.CustomersServed > 0 {
		r.AvgServiceTime = totalService / float64(r.CustomersServed)
	}
	r.UtilisationMean = finiteOrZero(util.Mean())
	r.UtilisationStdev = finiteOrZero(util.StdDev())

	avgSum := 0.0
	for i, qs := range sim.QueueStats {
		qr := QueueReport{Index: i, AvgLength: qs.Average(elapsed), MaxLength: qs.MaxLength}
		avgSum += qr.AvgLength
		r.MaxQueueLength = max(r.MaxQueueLength, qr.MaxLength)
		r.Queues = append(r.Queues, qr)
	}
	if len(sim.QueueStats) > 0 {
		r.AvgQueueLength = avgSum / float64(len(sim.QueueStats))
	}
	return r
}

// stats.Sample yields NaN for empty or single-element samples.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Print writes the report as a human-readable table.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "=== Simulation Report (%s queue) ===\n", r.Mode)
	fmt.Fprintf(w, "Elapsed Time         : %s\n", humanize.CommafWithDigits(r.ElapsedTime, 2))
	fmt.Fprintf(w, "Customers Served     : %s\n", humanize.Comma(int64(r.CustomersServed)))
	fmt.Fprintf(w, "Events Processed     : %s\n", humanize.Comma(int64(r.EventsProcessed)))
	fmt.Fprintf(w, "Total Idle Time      : %.2f\n", r.TotalIdleTime)
	fmt.Fprintf(w, "Average Service Time : %.2f\n", r.AvgServiceTime)
	fmt.Fprintf(w, "Average Wait Time    : %.2f\n", r.AvgWaitTime)
	fmt.Fprintf(w, "Maximum Wait Time    : %.2f\n", r.MaxWaitTime)
	if r.LateArrivals > 0 {
		fmt.Fprintf(w, "Late Arrivals        : %d (waits include time until read)\n", r.LateArrivals)
	}
	fmt.Fprintf(w, "Wait p50 / p90 / p99 : %.2f / %.2f / %.2f\n", r.WaitP50, r.WaitP90, r.WaitP99)
	fmt.Fprintf(w, "Average Queue Length : %.3f\n", r.AvgQueueLength)
	fmt.Fprintf(w, "Maximum Queue Length : %d\n", r.MaxQueueLength)
	fmt.Fprintf(w, "Utilisation          : %.3f (stdev %.3f)\n", r.UtilisationMean, r.UtilisationStdev)
	if len(r.Queues) > 1 {
		fmt.Fprintln(w, "--- Queues ---")
		for _, q := range r.Queues {
			fmt.Fprintf(w, "  queue %-3d avg %.3f  max %d\n", q.Index, q.AvgLength, q.MaxLength)
		}
	}
	fmt.Fprintln(w, "--- Tellers ---")
	for _, t := range r.Tellers {
		fmt.Fprintf(w, "  teller %-3d served %-6d idle %-10.2f busy %-10.2f util %.3f\n",
			t.ID, t.CustomersServed, t.IdleTime, t.ServiceTime, t.Utilisation)
	}
}

// SaveReports writes reports as an indented JSON array to path.
func SaveReports(path string, reports []*Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding reports: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logrus.Debugf("Wrote %d report(s) to %s", len(reports), path)
	return nil
}
