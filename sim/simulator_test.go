package sim

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/inference-sim/teller-sim/sim/internal/testutil"
	"github.com/inference-sim/teller-sim/sim/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arrivals(service float64, times ...float64) []Customer {
	cs := make([]Customer, len(times))
	for i, at := range times {
		cs[i] = Customer{Arrival: at, Service: service}
	}
	return cs
}

func runSim(t *testing.T, mode Mode, src Source) *Simulator {
	t.Helper()
	sim := NewSimulator(mode)
	require.NoError(t, sim.Initialise(src))
	require.NoError(t, sim.Run())
	return sim
}

func TestSimulator_ScenarioA_NoWaiting(t *testing.T) {
	// GIVEN one teller and arrivals at 0, 1, 2 needing 1 unit each
	src := &SliceSource{TellerCount: 1, Customers: arrivals(1, 0, 1, 2)}

	// WHEN simulated
	sim := runSim(t, SingleQueue, src)

	// THEN nobody waits and the run ends at t=3
	assert.Equal(t, 3.0, sim.Clock)
	assert.Equal(t, 0.0, sim.Metrics.MaxWait)
	assert.Equal(t, 0.0, sim.Metrics.TotalWait)
	assert.Equal(t, 3, sim.Tellers[0].CustomersServed())
	assert.Equal(t, 0.0, sim.Tellers[0].IdleTime())
	assert.Equal(t, 0, sim.QueueStats[0].MaxLength)
	assert.Equal(t, 6, sim.EventsProcessed)
	assert.Zero(t, sim.EventsRemaining())
}

func TestSimulator_ScenarioB_QueueBuildsUp(t *testing.T) {
	// GIVEN one teller and three simultaneous arrivals needing 5 units each
	src := &SliceSource{TellerCount: 1, Customers: arrivals(5, 0, 0, 0)}

	// WHEN simulated
	sim := runSim(t, SingleQueue, src)

	// THEN customers wait 0, 5 and 10
	assert.Equal(t, 15.0, sim.Clock)
	assert.Equal(t, 15.0, sim.Metrics.TotalWait)
	assert.Equal(t, 10.0, sim.Metrics.MaxWait)
	assert.Equal(t, 3, sim.Metrics.Waits)
	assert.Equal(t, 2, sim.QueueStats[0].MaxLength)
	// AND the queue held 2 for 5 units and 1 for 5 units
	assert.Equal(t, 15.0, sim.QueueStats[0].Integral)

	r := sim.Analyse()
	assert.Equal(t, "single", r.Mode)
	assert.Equal(t, 3, r.CustomersServed)
	assert.Equal(t, 5.0, r.AvgServiceTime)
	assert.Equal(t, 5.0, r.AvgWaitTime)
	assert.Equal(t, 10.0, r.MaxWaitTime)
	assert.Equal(t, 1.0, r.AvgQueueLength)
	assert.Equal(t, 2, r.MaxQueueLength)
	assert.Equal(t, 1.0, r.UtilisationMean)
	assert.Equal(t, 0.0, r.UtilisationStdev, "single teller has no spread")
	testutil.AssertFloat64Equal(t, "wait p50", 5, r.WaitP50, 0.02)
	assert.LessOrEqual(t, r.WaitP99, 10.1)
}

func TestSimulator_ScenarioC_IndependentQueuesShortestFirst(t *testing.T) {
	// GIVEN two tellers with own queues and five arrivals at t=0 needing 10 each
	src := &SliceSource{TellerCount: 2, Customers: arrivals(10, 0, 0, 0, 0, 0)}

	// WHEN simulated
	sim := runSim(t, IndependentQueues, src)

	// THEN customers 3 and 5 joined queue 0 and customer 4 joined queue 1
	require.Len(t, sim.Queues, 2)
	assert.Equal(t, 2, sim.QueueStats[0].MaxLength)
	assert.Equal(t, 1, sim.QueueStats[1].MaxLength)
	assert.Equal(t, 30.0, sim.QueueStats[0].Integral)
	assert.Equal(t, 10.0, sim.QueueStats[1].Integral)
	assert.Equal(t, 30.0, sim.Clock)
	assert.Equal(t, 40.0, sim.Metrics.TotalWait)
	assert.Equal(t, 20.0, sim.Metrics.MaxWait)
	assert.Equal(t, 3, sim.Tellers[0].CustomersServed())
	assert.Equal(t, 2, sim.Tellers[1].CustomersServed())

	r := sim.Analyse()
	require.Len(t, r.Queues, 2)
	testutil.AssertFloat64Equal(t, "queue 0 avg", 1.0, r.Queues[0].AvgLength, 1e-9)
	testutil.AssertFloat64Equal(t, "queue 1 avg", 1.0/3, r.Queues[1].AvgLength, 1e-9)
	testutil.AssertFloat64Equal(t, "overall avg", 2.0/3, r.AvgQueueLength, 1e-9)
	assert.Equal(t, 2, r.MaxQueueLength)
	testutil.AssertFloat64Near(t, "total idle", 0, r.TotalIdleTime, 1e-12)
	testutil.AssertFloat64Equal(t, "utilisation mean", 5.0/6, r.UtilisationMean, 1e-9)
	assert.Greater(t, r.UtilisationStdev, 0.0)
}

func TestSimulator_SingleQueue_MultipleTellersShareQueue(t *testing.T) {
	// GIVEN two tellers sharing a queue and three arrivals at t=0 needing 10
	src := &SliceSource{TellerCount: 2, Customers: arrivals(10, 0, 0, 0)}

	// WHEN simulated
	sim := runSim(t, SingleQueue, src)

	// THEN the lowest-numbered teller takes the queued customer first
	require.Len(t, sim.Queues, 1)
	assert.Equal(t, 20.0, sim.Clock)
	assert.Equal(t, 10.0, sim.Metrics.MaxWait)
	assert.Equal(t, 2, sim.Tellers[0].CustomersServed())
	assert.Equal(t, 1, sim.Tellers[1].CustomersServed())
}

func TestSimulator_IdleTime_AccruedOnNextService(t *testing.T) {
	// GIVEN one teller, arrivals at 0 and 5 needing 1 unit each
	src := &SliceSource{TellerCount: 1, Customers: arrivals(1, 0, 5)}

	// WHEN simulated
	sim := runSim(t, SingleQueue, src)

	// THEN the gap between 1 and 5 is idle time and the trailing idle is not
	assert.Equal(t, 6.0, sim.Clock)
	assert.Equal(t, 4.0, sim.Tellers[0].IdleTime())
	assert.True(t, sim.Tellers[0].IsIdle())
}

func TestSimulator_FinishBeforeArrivalAtSameInstant(t *testing.T) {
	// GIVEN one teller finishing at t=2 exactly when the next customer arrives
	src := &SliceSource{TellerCount: 1, Customers: []Customer{{Arrival: 0, Service: 2}, {Arrival: 2, Service: 1}}}

	// WHEN simulated
	sim := runSim(t, SingleQueue, src)

	// THEN the arriving customer is served without ever queueing
	assert.Equal(t, 0, sim.QueueStats[0].MaxLength)
	assert.Equal(t, 0.0, sim.Metrics.MaxWait)
	assert.Equal(t, 3.0, sim.Clock)
}

func TestSimulator_UnsortedInput_ClockNeverMovesBackwards(t *testing.T) {
	// GIVEN input whose third arrival is earlier than the second
	src := &SliceSource{TellerCount: 1, Customers: []Customer{
		{Arrival: 0, Service: 2},
		{Arrival: 1, Service: 1},
		{Arrival: 0.5, Service: 1},
	}}
	sim := NewSimulator(SingleQueue)
	require.NoError(t, sim.Initialise(src))

	// WHEN stepped manually
	last := 0.0
	for sim.EventsRemaining() > 0 {
		ev, err := sim.NextEvent()
		require.NoError(t, err)
		if ev.Timestamp() > sim.Clock {
			sim.Clock = ev.Timestamp()
		}
		ev.Execute(sim)
		// THEN the clock is monotonic
		require.GreaterOrEqual(t, sim.Clock, last)
		last = sim.Clock
	}

	// AND the late record is processed at the time it was read
	assert.Equal(t, 4.0, sim.Clock)
	assert.Equal(t, 2.5, sim.Metrics.MaxWait)
	assert.Equal(t, 3.5, sim.Metrics.TotalWait)
	assert.Equal(t, 2, sim.QueueStats[0].MaxLength)
}

func TestSimulator_Run_UnsortedInputMatchesManualStepping(t *testing.T) {
	src := &SliceSource{TellerCount: 1, Customers: []Customer{
		{Arrival: 0, Service: 2},
		{Arrival: 1, Service: 1},
		{Arrival: 0.5, Service: 1},
	}}

	sim := runSim(t, SingleQueue, src)

	assert.Equal(t, 4.0, sim.Clock)
	assert.Equal(t, 2.5, sim.Metrics.MaxWait)
}

func TestSimulator_NegativeArrivals_ClockStartsAtFirstArrival(t *testing.T) {
	// GIVEN one teller and arrivals at -3 and -2.5 needing 1 unit each
	src := &SliceSource{TellerCount: 1, Customers: arrivals(1, -3, -2.5)}

	// WHEN simulated
	sim := runSim(t, SingleQueue, src)

	// THEN the first customer is served on arrival and the second waits 0.5
	assert.Equal(t, -3.0, sim.StartTime)
	assert.Equal(t, -1.0, sim.Clock)
	assert.Equal(t, 0.5, sim.Metrics.TotalWait)
	assert.Equal(t, 0.5, sim.Metrics.MaxWait)
	assert.Equal(t, 0.0, sim.Tellers[0].IdleTime())
	assert.Zero(t, sim.LateArrivals)

	// AND elapsed time runs from the first arrival
	r := sim.Analyse()
	assert.Equal(t, 2.0, r.ElapsedTime)
	assert.Equal(t, 0.25, r.AvgQueueLength)
	assert.Equal(t, 1.0, r.UtilisationMean)
}

func TestSimulator_NegativeArrivals_IdleTellerAccruesFromStart(t *testing.T) {
	// GIVEN two tellers, a long first service at -4 and a second arrival at -1
	src := &SliceSource{TellerCount: 2, Customers: []Customer{
		{Arrival: -4, Service: 10},
		{Arrival: -1, Service: 1},
	}}

	// WHEN simulated
	sim := runSim(t, SingleQueue, src)

	// THEN the second teller was idle from -4 until it served at -1
	assert.Equal(t, 3.0, sim.Tellers[1].IdleTime())
	assert.Equal(t, 0.0, sim.Metrics.TotalWait)
	assert.Equal(t, 6.0, sim.Clock)
}

func TestSimulator_LateArrival_WaitIncludesTimeUntilRead(t *testing.T) {
	// GIVEN one teller and arrivals at 0, 10, 5 needing 1 unit each
	src := &SliceSource{TellerCount: 1, Customers: arrivals(1, 0, 10, 5)}

	// WHEN simulated
	sim := runSim(t, SingleQueue, src)

	// THEN the record stamped 5 is read at 10 and counted late
	assert.Equal(t, 1, sim.LateArrivals)
	// AND its wait runs from its stated arrival to its start at 11
	assert.Equal(t, 6.0, sim.Metrics.MaxWait)
	assert.Equal(t, 6.0, sim.Metrics.TotalWait)
	assert.Equal(t, 9.0, sim.Tellers[0].IdleTime())
	assert.Equal(t, 12.0, sim.Clock)

	r := sim.Analyse()
	assert.Equal(t, 1, r.LateArrivals)
}

func TestSimulator_InvalidCustomer(t *testing.T) {
	t.Run("negative service in first record", func(t *testing.T) {
		src := &SliceSource{TellerCount: 1, Customers: []Customer{{Arrival: 0, Service: -1}}}
		err := NewSimulator(SingleQueue).Initialise(src)
		assert.ErrorIs(t, err, ErrInvalidCustomer)
	})
	t.Run("non-finite first arrival", func(t *testing.T) {
		src := &SliceSource{TellerCount: 1, Customers: []Customer{{Arrival: math.Inf(-1), Service: 1}}}
		err := NewSimulator(SingleQueue).Initialise(src)
		assert.ErrorIs(t, err, ErrInvalidCustomer)
	})
	t.Run("negative service in later record", func(t *testing.T) {
		// GIVEN a valid first record followed by a negative service duration
		src := &SliceSource{TellerCount: 1, Customers: []Customer{
			{Arrival: 0, Service: 1},
			{Arrival: 0.5, Service: -2},
			{Arrival: 0.7, Service: 1},
		}}
		sim := NewSimulator(SingleQueue)
		require.NoError(t, sim.Initialise(src))

		// WHEN run
		err := sim.Run()

		// THEN the bad record stops input and nothing is scheduled in the past
		assert.ErrorIs(t, err, ErrInvalidCustomer)
		assert.Equal(t, 1, sim.Tellers[0].CustomersServed())
		assert.Equal(t, 1.0, sim.Clock)
		assert.Zero(t, sim.LateArrivals)
	})
}

func TestSimulator_Initialise_Errors(t *testing.T) {
	t.Run("zero tellers", func(t *testing.T) {
		err := NewSimulator(SingleQueue).Initialise(&SliceSource{TellerCount: 0, Customers: arrivals(1, 0)})
		assert.Error(t, err)
	})
	t.Run("no customers", func(t *testing.T) {
		err := NewSimulator(SingleQueue).Initialise(&SliceSource{TellerCount: 2})
		assert.ErrorIs(t, err, ErrNoCustomers)
	})
	t.Run("teller count unreadable", func(t *testing.T) {
		boom := errors.New("boom")
		err := NewSimulator(SingleQueue).Initialise(&failingSource{tellersErr: boom})
		assert.ErrorIs(t, err, boom)
	})
	t.Run("first record unreadable", func(t *testing.T) {
		boom := errors.New("bad record")
		err := NewSimulator(SingleQueue).Initialise(&failingSource{tellers: 1, failAfter: 0, err: boom})
		assert.ErrorIs(t, err, boom)
	})
}

func TestSimulator_Run_InputErrorAfterFirstRecord_DrainsAndReports(t *testing.T) {
	// GIVEN a source that fails on the second record
	boom := errors.New("truncated")
	src := &failingSource{tellers: 1, customers: arrivals(1, 0), failAfter: 1, err: boom}
	sim := NewSimulator(SingleQueue)
	require.NoError(t, sim.Initialise(src))

	// WHEN run
	err := sim.Run()

	// THEN the error surfaces and the already scheduled work completes
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, sim.Tellers[0].CustomersServed())
	assert.Equal(t, 1.0, sim.Clock)
	assert.Zero(t, sim.EventsRemaining())
}

func TestSimulator_Trace_RecordsEveryService(t *testing.T) {
	// GIVEN scenario B with tracing enabled
	sim := NewSimulator(SingleQueue)
	sim.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelService})
	require.NoError(t, sim.Initialise(&SliceSource{TellerCount: 1, Customers: arrivals(5, 0, 0, 0)}))

	// WHEN run
	require.NoError(t, sim.Run())

	// THEN one record per customer in service order
	require.Len(t, sim.Trace.Services, 3)
	for i, r := range sim.Trace.Services {
		assert.Equal(t, i+1, r.CustomerID)
		assert.Equal(t, float64(i*5), r.Start)
		assert.Equal(t, float64(i*5+5), r.Finish)
	}
	assert.Equal(t, -1, sim.Trace.Services[0].Queue)
	assert.Equal(t, 0, sim.Trace.Services[1].Queue)
}

func TestSimulator_Deterministic_SameInputSameReport(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cs := make([]Customer, 200)
	at := 0.0
	for i := range cs {
		at += float64(rng.Intn(3))
		cs[i] = Customer{Arrival: at, Service: float64(1 + rng.Intn(6))}
	}

	for _, mode := range []Mode{SingleQueue, IndependentQueues} {
		// GIVEN the same input twice
		a := runSim(t, mode, &SliceSource{TellerCount: 3, Customers: cs})
		b := runSim(t, mode, &SliceSource{TellerCount: 3, Customers: cs})

		// THEN the analyses are identical
		assert.Equal(t, a.Analyse(), b.Analyse(), mode.String())
		assert.Equal(t, 200, a.Analyse().CustomersServed)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("independent")
	require.NoError(t, err)
	assert.Equal(t, IndependentQueues, m)

	m, err = ParseMode("single")
	require.NoError(t, err)
	assert.Equal(t, SingleQueue, m)

	_, err = ParseMode("both")
	assert.Error(t, err)
}

func TestSliceSource_NumbersCustomers(t *testing.T) {
	src := &SliceSource{TellerCount: 1, Customers: arrivals(1, 0, 1)}

	c1, err := src.Next()
	require.NoError(t, err)
	c2, err := src.Next()
	require.NoError(t, err)
	_, err = src.Next()

	assert.Equal(t, 1, c1.ID)
	assert.Equal(t, 2, c2.ID)
	assert.ErrorIs(t, err, io.EOF)
}

// failingSource yields customers until failAfter records were read, then err.
type failingSource struct {
	tellers    int
	tellersErr error
	customers  []Customer
	failAfter  int
	err        error
	read       int
}

func (s *failingSource) Tellers() (int, error) {
	return s.tellers, s.tellersErr
}

func (s *failingSource) Next() (Customer, error) {
	if s.read >= s.failAfter {
		return Customer{}, s.err
	}
	c := s.customers[s.read]
	s.read++
	c.ID = s.read
	return c, nil
}
