package workload

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/inference-sim/teller-sim/sim"
)

// GenerateCustomers creates a customer sequence from a WorkloadSpec.
// Deterministic given the same spec and seed. Customers are in arrival
// order with 1-based IDs.
func GenerateCustomers(spec *WorkloadSpec) ([]sim.Customer, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}
	service, err := NewDurationSampler(spec.Service)
	if err != nil {
		return nil, fmt.Errorf("service distribution: %w", err)
	}
	arrival := NewArrivalSampler(spec.Arrival)

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	arrivalRNG := rng.ForSubsystem(sim.SubsystemArrivals)
	serviceRNG := rng.ForSubsystem(sim.SubsystemService)

	customers := make([]sim.Customer, spec.Customers)
	now := 0.0
	for i := range customers {
		if i > 0 {
			now += arrival.SampleGap(arrivalRNG)
		}
		customers[i] = sim.Customer{
			ID:      i + 1,
			Arrival: now,
			Service: service.Sample(serviceRNG),
		}
	}
	return customers, nil
}

// WriteText writes tellers and customers in the text input format read by
// TextSource: the teller count on the first line, then one
// "arrival service" pair per line.
func WriteText(w io.Writer, tellers int, customers []sim.Customer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, tellers); err != nil {
		return err
	}
	for _, c := range customers {
		line := strconv.FormatFloat(c.Arrival, 'g', -1, 64) + " " + strconv.FormatFloat(c.Service, 'g', -1, 64)
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("writing customer %d: %w", c.ID, err)
		}
	}
	return bw.Flush()
}
