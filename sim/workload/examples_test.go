package workload

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExampleSpec_BurstyLunchtime verifies that the bundled example spec
// loads, validates and generates its full customer count.
func TestExampleSpec_BurstyLunchtime(t *testing.T) {
	// GIVEN the bursty-lunchtime.yaml example
	spec, err := LoadWorkloadSpec(filepath.Join("..", "..", "examples", "bursty-lunchtime.yaml"))
	require.NoError(t, err)

	// THEN validation passes
	require.NoError(t, spec.Validate())
	assert.Equal(t, "gamma", spec.Arrival.Process)
	assert.Equal(t, "lognormal", spec.Service.Type)

	// THEN generation yields every customer
	cs, err := GenerateCustomers(spec)
	require.NoError(t, err)
	assert.Len(t, cs, 2000)
}

func TestExampleInput_Branch(t *testing.T) {
	src, err := OpenFile(filepath.Join("..", "..", "examples", "branch.txt"))
	require.NoError(t, err)
	defer src.Close()

	n, err := src.Tellers()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, readAll(t, src), 9)
}
