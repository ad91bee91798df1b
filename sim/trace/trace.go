package trace

// TraceLevel controls what is recorded during a run.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelService records one ServiceRecord per served customer.
	TraceLevelService TraceLevel = "service"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelService: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether anything is recorded at this level.
func (c TraceConfig) Enabled() bool {
	return c.Level != TraceLevelNone && c.Level != ""
}

// SimulationTrace collects service records during a simulation.
type SimulationTrace struct {
	Config   TraceConfig
	Services []ServiceRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:   config,
		Services: make([]ServiceRecord, 0),
	}
}

// RecordService appends a service record.
func (st *SimulationTrace) RecordService(record ServiceRecord) {
	st.Services = append(st.Services, record)
}
