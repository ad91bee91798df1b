package sim

// TellerState is the logical state of a teller.
type TellerState string

const (
	TellerIdle TellerState = "idle"
	TellerBusy TellerState = "busy"
)

// Teller serves one customer at a time.
//
// Idle time is accrued lazily: SetIdle only remembers when the teller became
// idle, and the gap is added on the next call to Serve. A teller that stays
// idle until the end of the run contributes nothing for that final stretch.
type Teller struct {
	ID int // index into Simulator.Tellers

	state       TellerState
	idleTime    float64 // accumulated time spent idle before a service
	beginIdle   float64 // when the current idle stretch started
	served      int     // customers served
	serviceTime float64 // sum of service durations
}

// NewTeller returns an idle teller whose idle stretch starts at time 0.
func NewTeller(id int) *Teller {
	return &Teller{ID: id, state: TellerIdle}
}

// Serve starts serving c at now and returns the finish time.
func (t *Teller) Serve(now float64, c *Customer) float64 {
	if t.state == TellerIdle {
		t.idleTime += now - t.beginIdle
	}
	t.state = TellerBusy
	t.served++
	t.serviceTime += c.Service
	return now + c.Service
}

// SetIdle marks the teller idle from now on.
func (t *Teller) SetIdle(now float64) {
	t.state = TellerIdle
	t.beginIdle = now
}

// IsIdle reports whether the teller can take a customer.
func (t *Teller) IsIdle() bool {
	return t.state == TellerIdle
}

// State returns the current state.
func (t *Teller) State() TellerState {
	return t.state
}

// CustomersServed returns the number of customers the teller started serving.
func (t *Teller) CustomersServed() int {
	return t.served
}

// IdleTime returns the idle time accrued so far.
func (t *Teller) IdleTime() float64 {
	return t.idleTime
}

// ServiceTime returns the summed service durations of served customers.
func (t *Teller) ServiceTime() float64 {
	return t.serviceTime
}
