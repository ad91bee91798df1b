package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// WorkloadSpec describes a synthetic bank workload.
//
// Example:
//
//	tellers: 3
//	customers: 1000
//	seed: 42
//	arrival:
//	  process: gamma
//	  rate: 0.5
//	  cv: 2.0
//	service:
//	  type: exponential
//	  params: {mean: 5}
type WorkloadSpec struct {
	Tellers   int         `yaml:"tellers"`
	Customers int         `yaml:"customers"`
	Seed      int64       `yaml:"seed"`
	Arrival   ArrivalSpec `yaml:"arrival"`
	Service   DistSpec    `yaml:"service"`
}

// ArrivalSpec configures the inter-arrival time process.
type ArrivalSpec struct {
	Process string   `yaml:"process"`
	Rate    float64  `yaml:"rate"` // customers per time unit
	CV      *float64 `yaml:"cv,omitempty"`
}

// DistSpec parameterizes a service duration distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

var (
	validArrivalProcesses = map[string]bool{"poisson": true, "gamma": true, "weibull": true}
	validDistTypes        = map[string]bool{"gaussian": true, "exponential": true, "lognormal": true, "constant": true}
)

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *WorkloadSpec) Validate() error {
	if s.Tellers <= 0 {
		return fmt.Errorf("tellers must be positive, got %d", s.Tellers)
	}
	if s.Customers < 0 {
		return fmt.Errorf("customers must be non-negative, got %d", s.Customers)
	}
	if !validArrivalProcesses[s.Arrival.Process] {
		return fmt.Errorf("unknown arrival process %q; valid: poisson, gamma, weibull", s.Arrival.Process)
	}
	if err := validateFinitePositive("arrival.rate", s.Arrival.Rate); err != nil {
		return err
	}
	if s.Arrival.CV != nil {
		if err := validateFinitePositive("arrival.cv", *s.Arrival.CV); err != nil {
			return err
		}
		if s.Arrival.Process == "weibull" && (*s.Arrival.CV < 0.01 || *s.Arrival.CV > 10.4) {
			return fmt.Errorf("weibull CV must be in [0.01, 10.4], got %f", *s.Arrival.CV)
		}
	}
	return validateDistSpec("service", &s.Service)
}

func validateDistSpec(prefix string, d *DistSpec) error {
	if !validDistTypes[d.Type] {
		return fmt.Errorf("%s: unknown distribution type %q; valid: gaussian, exponential, lognormal, constant", prefix, d.Type)
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
