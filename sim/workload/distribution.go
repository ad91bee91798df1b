package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// DurationSampler generates service durations.
type DurationSampler interface {
	// Sample returns a non-negative duration.
	Sample(rng *rand.Rand) float64
}

// GaussianSampler produces Gaussian durations clamped to [min, max].
type GaussianSampler struct {
	mean, stdDev float64
	min, max     float64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) float64 {
	if s.min == s.max {
		return s.min
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	return math.Min(s.max, math.Max(s.min, val))
}

// ExponentialSampler produces exponentially-distributed durations.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

// LogNormalSampler produces durations whose logarithm is Normal(mu, sigma).
type LogNormalSampler struct {
	mu, sigma float64
}

func (s *LogNormalSampler) Sample(rng *rand.Rand) float64 {
	return math.Exp(s.mu + s.sigma*rng.NormFloat64())
}

// ConstantSampler always returns the same duration.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewDurationSampler creates a DurationSampler from a DistSpec.
func NewDurationSampler(spec DistSpec) (DurationSampler, error) {
	switch spec.Type {
	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev", "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if lo < 0 || hi < lo {
			return nil, fmt.Errorf("gaussian bounds must satisfy 0 <= min <= max, got [%g, %g]", lo, hi)
		}
		return &GaussianSampler{
			mean:   spec.Params["mean"],
			stdDev: spec.Params["std_dev"],
			min:    lo,
			max:    hi,
		}, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		if spec.Params["mean"] <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %g", spec.Params["mean"])
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	case "lognormal":
		if err := requireParam(spec.Params, "mu", "sigma"); err != nil {
			return nil, err
		}
		return &LogNormalSampler{mu: spec.Params["mu"], sigma: spec.Params["sigma"]}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		if spec.Params["value"] < 0 {
			return nil, fmt.Errorf("constant duration must be non-negative, got %g", spec.Params["value"])
		}
		return &ConstantSampler{value: spec.Params["value"]}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
