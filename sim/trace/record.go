// Package trace records per-customer service data for post-run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// ServiceRecord captures one customer's path through the bank.
type ServiceRecord struct {
	CustomerID int
	Teller     int
	Queue      int // queue the customer waited in, -1 if served on arrival
	Arrival    float64
	Start      float64 // when service began
	Finish     float64
}

// Wait is the time spent queued before service began.
func (r ServiceRecord) Wait() float64 {
	return r.Start - r.Arrival
}

// Sojourn is the total time in the system.
func (r ServiceRecord) Sojourn() float64 {
	return r.Finish - r.Arrival
}
