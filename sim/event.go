package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// EventKind identifies an event type. Lower values are processed first when
// timestamps are equal.
type EventKind int

const (
	// EventTellerFinish is ordered before EventArrival so a teller finishing at
	// the same instant a customer arrives is free to take that customer.
	EventTellerFinish EventKind = iota
	EventArrival
)

func (k EventKind) String() string {
	switch k {
	case EventTellerFinish:
		return "TellerFinish"
	case EventArrival:
		return "Arrival"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event defines the interface for all simulation events.
// Each event carries an absolute Timestamp, a Kind and a sequence number
// assigned when it was scheduled, and an Execute method that advances
// simulation state when invoked.
type Event interface {
	Timestamp() float64
	Kind() EventKind
	Seq() uint64
	// Less orders events by timestamp, then kind, then sequence number.
	Less(other Event) bool
	Execute(*Simulator)
}

// baseEvent provides the common event fields and ordering.
type baseEvent struct {
	time float64
	kind EventKind
	seq  uint64
}

func (e *baseEvent) Timestamp() float64 { return e.time }
func (e *baseEvent) Kind() EventKind    { return e.kind }
func (e *baseEvent) Seq() uint64        { return e.seq }

func (e *baseEvent) Less(other Event) bool {
	if e.time != other.Timestamp() {
		return e.time < other.Timestamp()
	}
	if e.kind != other.Kind() {
		return e.kind < other.Kind()
	}
	return e.seq < other.Seq()
}

// ArrivalEvent represents a customer arriving at the bank.
type ArrivalEvent struct {
	baseEvent
	Customer *Customer
}

func newArrivalEvent(c *Customer, seq uint64) *ArrivalEvent {
	return &ArrivalEvent{
		baseEvent: baseEvent{time: c.Arrival, kind: EventArrival, seq: seq},
		Customer:  c,
	}
}

// Execute serves or enqueues the customer and schedules the next arrival.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	logrus.Infof("<< Arrival: customer %d at t=%.2f", e.Customer.ID, sim.Clock)
	sim.ProcessArrival(e.Customer)
}

func (e *ArrivalEvent) String() string {
	return fmt.Sprintf("Event(t=%.2f, kind=%s, customer=%d)", e.time, e.kind, e.Customer.ID)
}

// TellerFinishEvent represents a teller finishing its current customer.
type TellerFinishEvent struct {
	baseEvent
	Teller *Teller
}

func newTellerFinishEvent(at float64, t *Teller, seq uint64) *TellerFinishEvent {
	return &TellerFinishEvent{
		baseEvent: baseEvent{time: at, kind: EventTellerFinish, seq: seq},
		Teller:    t,
	}
}

// Execute hands the teller its next customer or marks it idle.
func (e *TellerFinishEvent) Execute(sim *Simulator) {
	logrus.Infof("<< TellerFinish: teller %d at t=%.2f", e.Teller.ID, sim.Clock)
	sim.ProcessTellerFinish(e.Teller)
}

func (e *TellerFinishEvent) String() string {
	return fmt.Sprintf("Event(t=%.2f, kind=%s, teller=%d)", e.time, e.kind, e.Teller.ID)
}
