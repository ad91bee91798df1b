package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/teller-sim/sim/workload"
)

var (
	// CLI flags for the generate command
	genSpecPath    string  // Optional YAML workload spec
	genOutput      string  // Output file
	genTellers     int     // Number of tellers
	genCustomers   int     // Number of customers
	genRate        float64 // Arrivals per time unit
	genProcess     string  // Arrival process
	genMeanService float64 // Mean exponential service duration
	genSeed        int64   // Seed for reproducible generation
	genLogLevel    string  // Log verbosity level
)

// generateCmd writes a synthetic workload in the run input format
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic workload file",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(genLogLevel)

		spec := flagWorkloadSpec()
		if genSpecPath != "" {
			loaded, err := workload.LoadWorkloadSpec(genSpecPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			spec = loaded
		}
		if genOutput == "" {
			logrus.Fatalf("No output file given. Use --output.")
		}
		if err := generateToFile(spec, genOutput); err != nil {
			logrus.Fatalf("Generating workload: %v", err)
		}
		logrus.Infof("Wrote %d customers for %d tellers to %s", spec.Customers, spec.Tellers, genOutput)
	},
}

func flagWorkloadSpec() *workload.WorkloadSpec {
	return &workload.WorkloadSpec{
		Tellers:   genTellers,
		Customers: genCustomers,
		Seed:      genSeed,
		Arrival:   workload.ArrivalSpec{Process: genProcess, Rate: genRate},
		Service: workload.DistSpec{
			Type:   "exponential",
			Params: map[string]float64{"mean": genMeanService},
		},
	}
}

func generateToFile(spec *workload.WorkloadSpec, path string) (err error) {
	customers, err := workload.GenerateCustomers(spec)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return workload.WriteText(f, spec.Tellers, customers)
}

func init() {
	generateCmd.Flags().StringVar(&genSpecPath, "spec", "", "YAML workload spec (overrides the generation flags)")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "Output file")
	generateCmd.Flags().IntVar(&genTellers, "tellers", 2, "Number of tellers")
	generateCmd.Flags().IntVar(&genCustomers, "customers", 100, "Number of customers")
	generateCmd.Flags().Float64Var(&genRate, "rate", 1.0, "Customer arrivals per time unit")
	generateCmd.Flags().StringVar(&genProcess, "process", "poisson", "Arrival process (poisson, gamma, weibull)")
	generateCmd.Flags().Float64Var(&genMeanService, "mean-service", 1.5, "Mean service duration")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 42, "Seed for reproducible generation")
	generateCmd.Flags().StringVar(&genLogLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
