package sim

import "fmt"

// Customer is one input record: when it arrives and how long it takes to
// serve. The engine drops its reference once a teller starts serving it.
type Customer struct {
	ID      int     // 1-based position in the input
	Arrival float64 // absolute arrival time
	Service float64 // service duration
}

func (c Customer) String() string {
	return fmt.Sprintf("Customer{ID: %d, Arrival: %.2f, Service: %.2f}", c.ID, c.Arrival, c.Service)
}
