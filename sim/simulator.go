// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/inference-sim/teller-sim/sim/queue"
	"github.com/inference-sim/teller-sim/sim/trace"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoCustomers is returned by Initialise when the input holds a teller
	// count but no customer records.
	ErrNoCustomers = errors.New("input contains no customers")

	// ErrInvalidCustomer is returned for a record whose service duration is
	// negative or whose times are not finite.
	ErrInvalidCustomer = errors.New("invalid customer record")
)

// Mode selects the queue discipline.
type Mode int

const (
	// SingleQueue: every teller pulls from one shared queue.
	SingleQueue Mode = iota
	// IndependentQueues: each teller owns a queue and arrivals join the shortest.
	IndependentQueues
)

func (m Mode) String() string {
	switch m {
	case SingleQueue:
		return "single"
	case IndependentQueues:
		return "independent"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "single" or "independent" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "single":
		return SingleQueue, nil
	case "independent":
		return IndependentQueues, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want single or independent)", s)
	}
}

// Simulator is the core object that holds simulation time, system state, and the event loop.
type Simulator struct {
	Mode  Mode
	Clock float64
	// StartTime is where the clock starts: 0, or the first arrival when that
	// is earlier.
	StartTime float64
	// events holds pending Arrival and TellerFinish events, minimum first.
	events *queue.Heap[Event]
	// Tellers is indexed by teller ID.
	Tellers []*Teller
	// Queues has one entry in single mode and one per teller in independent mode.
	Queues     []*queue.FIFO[*Customer]
	QueueStats []QueueStats
	Metrics    *Metrics
	// Trace is nil unless per-customer tracing was requested.
	Trace *trace.SimulationTrace

	EventsProcessed int
	// LateArrivals counts arrivals read after the clock had passed their
	// timestamp. Their waits include the time until they were read.
	LateArrivals int

	source   Source
	seq      uint64
	inputErr error
}

// NewSimulator returns an empty simulator. Call Initialise before Run.
func NewSimulator(mode Mode) *Simulator {
	return &Simulator{
		Mode:    mode,
		events:  queue.NewHeap[Event](),
		Metrics: NewMetrics(),
	}
}

// Initialise reads the teller count and the first customer from src, builds
// tellers, queues and statistics, and schedules the first arrival. The rest
// of the input is read lazily as arrivals are processed.
func (sim *Simulator) Initialise(src Source) error {
	n, err := src.Tellers()
	if err != nil {
		return fmt.Errorf("reading teller count: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("teller count must be positive, got %d", n)
	}

	sim.source = src
	sim.Tellers = make([]*Teller, n)
	for i := range sim.Tellers {
		sim.Tellers[i] = NewTeller(i)
	}
	queues := 1
	if sim.Mode == IndependentQueues {
		queues = n
	}
	sim.Queues = make([]*queue.FIFO[*Customer], queues)
	for i := range sim.Queues {
		sim.Queues[i] = queue.NewFIFO[*Customer]()
	}
	sim.QueueStats = make([]QueueStats, queues)

	c, err := src.Next()
	if errors.Is(err, io.EOF) {
		return ErrNoCustomers
	}
	if err != nil {
		return fmt.Errorf("reading first customer: %w", err)
	}
	if err := validateCustomer(c); err != nil {
		return err
	}
	if c.Arrival < 0 {
		sim.startAt(c.Arrival)
	}
	sim.Schedule(newArrivalEvent(&c, sim.nextSeq()))
	return nil
}

// startAt moves the start of the run to t: tellers are idle and queues empty
// from t on.
func (sim *Simulator) startAt(t float64) {
	sim.StartTime = t
	sim.Clock = t
	for _, teller := range sim.Tellers {
		teller.SetIdle(t)
	}
	for i := range sim.QueueStats {
		sim.QueueStats[i].LastChange = t
	}
}

func validateCustomer(c Customer) error {
	if math.IsNaN(c.Arrival) || math.IsInf(c.Arrival, 0) || math.IsNaN(c.Service) || math.IsInf(c.Service, 0) {
		return fmt.Errorf("customer %d: times must be finite: %w", c.ID, ErrInvalidCustomer)
	}
	if c.Service < 0 {
		return fmt.Errorf("customer %d: negative service duration %g: %w", c.ID, c.Service, ErrInvalidCustomer)
	}
	return nil
}

// Schedule pushes an event into the simulator's event heap.
func (sim *Simulator) Schedule(ev Event) {
	sim.events.Insert(ev)
}

// NextEvent removes and returns the earliest pending event.
func (sim *Simulator) NextEvent() (Event, error) {
	return sim.events.Pop()
}

// EventsRemaining returns the number of pending events.
func (sim *Simulator) EventsRemaining() int {
	return sim.events.Len()
}

// Run processes events until none remain. It returns the input error that
// stopped reading customers early, if any; events already scheduled are
// still processed.
//
// Input need not be sorted, but a customer is only read when the previous
// arrival is processed. A record stamped before the current clock is handled
// at the current clock and counted in LateArrivals; its wait is still
// measured from its stated arrival, so it includes the delay until it was
// read even if a teller was free.
func (sim *Simulator) Run() error {
	for !sim.events.IsEmpty() {
		ev, err := sim.NextEvent()
		if err != nil {
			return err
		}
		if ev.Timestamp() < sim.Clock {
			logrus.Warnf("[t=%.2f] %T stamped %.2f is in the past; processing at current time", sim.Clock, ev, ev.Timestamp())
			if ev.Kind() == EventArrival {
				sim.LateArrivals++
			}
		} else {
			sim.Clock = ev.Timestamp()
		}
		ev.Execute(sim)
		sim.EventsProcessed++
	}
	logrus.Infof("[t=%.2f] Simulation ended after %d events", sim.Clock, sim.EventsProcessed)
	return sim.inputErr
}

// NextAvailableTeller returns the index of the first idle teller, or -1.
func (sim *Simulator) NextAvailableTeller() int {
	for i, t := range sim.Tellers {
		if t.IsIdle() {
			return i
		}
	}
	return -1
}

// ProcessArrival serves c on the first idle teller, or queues it.
func (sim *Simulator) ProcessArrival(c *Customer) {
	if i := sim.NextAvailableTeller(); i >= 0 {
		sim.serve(sim.Tellers[i], c, -1)
	} else {
		idx := 0
		if sim.Mode == IndependentQueues {
			idx = sim.shortestQueue()
		}
		sim.Queues[idx].Enqueue(c)
		sim.recordQueueChange(idx, sim.Queues[idx].Len())
	}
	sim.scheduleNextArrival()
}

// ProcessTellerFinish hands t the next customer from its queue, or marks it
// idle when that queue is empty.
func (sim *Simulator) ProcessTellerFinish(t *Teller) {
	idx := 0
	if sim.Mode == IndependentQueues {
		idx = t.ID
	}
	q := sim.Queues[idx]
	c, err := q.Dequeue()
	if errors.Is(err, queue.ErrUnderflow) {
		t.SetIdle(sim.Clock)
		return
	}
	sim.recordQueueChange(idx, q.Len())
	sim.serve(t, c, idx)
}

// serve starts c on t at the current clock. from is the queue the customer
// left, or -1 when it was served on arrival.
func (sim *Simulator) serve(t *Teller, c *Customer, from int) {
	wait := sim.Clock - c.Arrival
	sim.Metrics.RecordWait(wait)
	finish := t.Serve(sim.Clock, c)
	if sim.Trace != nil {
		sim.Trace.RecordService(trace.ServiceRecord{
			CustomerID: c.ID,
			Teller:     t.ID,
			Queue:      from,
			Arrival:    c.Arrival,
			Start:      sim.Clock,
			Finish:     finish,
		})
	}
	sim.Schedule(newTellerFinishEvent(finish, t, sim.nextSeq()))
}

// shortestQueue returns the index of the shortest queue, lowest index on ties.
func (sim *Simulator) shortestQueue() int {
	best := 0
	for i := 1; i < len(sim.Queues); i++ {
		if sim.Queues[i].Less(sim.Queues[best]) {
			best = i
		}
	}
	return best
}

// recordQueueChange folds the time since the last change into the queue's
// length integral before storing its new length.
func (sim *Simulator) recordQueueChange(idx, newLength int) {
	qs := &sim.QueueStats[idx]
	qs.Integral += (sim.Clock - qs.LastChange) * float64(qs.Length)
	qs.LastChange = sim.Clock
	qs.Length = newLength
	qs.MaxLength = max(qs.MaxLength, newLength)
}

func (sim *Simulator) scheduleNextArrival() {
	if sim.source == nil || sim.inputErr != nil {
		return
	}
	c, err := sim.source.Next()
	if errors.Is(err, io.EOF) {
		sim.source = nil
		return
	}
	if err == nil {
		err = validateCustomer(c)
	}
	if err != nil {
		logrus.Errorf("[t=%.2f] reading customer: %v", sim.Clock, err)
		sim.inputErr = fmt.Errorf("reading customer: %w", err)
		return
	}
	sim.Schedule(newArrivalEvent(&c, sim.nextSeq()))
}

func (sim *Simulator) nextSeq() uint64 {
	sim.seq++
	return sim.seq
}
