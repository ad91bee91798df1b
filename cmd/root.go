package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/teller-sim/sim"
	"github.com/inference-sim/teller-sim/sim/trace"
	"github.com/inference-sim/teller-sim/sim/workload"
)

var (
	// CLI flags for the run command
	inputPath  string // Input file: teller count then arrival/service pairs
	modeName   string // Queue discipline: single, independent or both
	configPath string // Optional YAML run configuration
	outputPath string // Optional JSON report file
	traceLevel string // Per-customer trace level
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "teller-sim",
	Short: "Discrete-event simulator for bank teller queues",
}

// runCmd simulates the input under one or both queue disciplines
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the teller simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		cfg := RunConfig{}
		if configPath != "" {
			loaded, err := LoadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg = loaded
		}
		flags := cmd.Flags()
		if flags.Changed("input") || cfg.Input == "" {
			cfg.Input = inputPath
		}
		if flags.Changed("mode") || cfg.Mode == "" {
			cfg.Mode = modeName
		}
		if flags.Changed("output") || cfg.Output == "" {
			cfg.Output = outputPath
		}
		if flags.Changed("trace") || cfg.Trace == "" {
			cfg.Trace = traceLevel
		}
		if cfg.Input == "" {
			logrus.Fatalf("No input file given. Use --input or set input in --config.")
		}

		startTime := time.Now()
		reports, err := runSimulations(cfg, os.Stdout)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if cfg.Output != "" {
			if err := sim.SaveReports(cfg.Output, reports); err != nil {
				logrus.Fatalf("Saving reports: %v", err)
			}
		}
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// modesFor expands a mode name into the disciplines to simulate.
func modesFor(name string) ([]sim.Mode, error) {
	if name == "both" {
		return []sim.Mode{sim.SingleQueue, sim.IndependentQueues}, nil
	}
	m, err := sim.ParseMode(name)
	if err != nil {
		return nil, err
	}
	return []sim.Mode{m}, nil
}

// runSimulations simulates cfg.Input once per selected mode, printing each
// report to out. The input is re-read for every mode.
func runSimulations(cfg RunConfig, out io.Writer) ([]*sim.Report, error) {
	modes, err := modesFor(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if !trace.IsValidTraceLevel(cfg.Trace) {
		return nil, fmt.Errorf("unknown trace level %q; valid: none, service", cfg.Trace)
	}
	traceCfg := trace.TraceConfig{Level: trace.TraceLevel(cfg.Trace)}

	var reports []*sim.Report
	for _, mode := range modes {
		r, err := simulateFile(cfg.Input, mode, traceCfg, out)
		if err != nil {
			return nil, fmt.Errorf("%s queue: %w", mode, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func simulateFile(path string, mode sim.Mode, traceCfg trace.TraceConfig, out io.Writer) (*sim.Report, error) {
	src, err := workload.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			logrus.Warnf("Error closing %s: %v", path, closeErr)
		}
	}()

	s := sim.NewSimulator(mode)
	if traceCfg.Enabled() {
		s.Trace = trace.NewSimulationTrace(traceCfg)
	}
	if err := s.Initialise(src); err != nil {
		return nil, err
	}
	logrus.Infof("Starting %s-queue simulation with %d tellers", mode, len(s.Tellers))
	if err := s.Run(); err != nil {
		return nil, err
	}

	r := s.Analyse()
	r.Print(out)
	if s.Trace != nil {
		printTraceSummary(out, trace.Summarize(s.Trace))
	}
	fmt.Fprintln(out)
	return r, nil
}

// traceHeading is plain when stdout is not a terminal.
var traceHeading = color.New(color.Bold, color.FgCyan)

func printTraceSummary(out io.Writer, ts *trace.TraceSummary) {
	traceHeading.Fprintln(out, "--- Trace ---")
	fmt.Fprintf(out, "  customers %d (queued %d)\n", ts.Customers, ts.QueuedCount)
	fmt.Fprintf(out, "  wait mean %.2f  p50 %.2f  p95 %.2f  max %.2f\n", ts.MeanWait, ts.P50Wait, ts.P95Wait, ts.MaxWait)
	fmt.Fprintf(out, "  sojourn mean %.2f  p95 %.2f\n", ts.MeanSojourn, ts.P95Sojourn)
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "", "Input file (teller count, then arrival/service pairs)")
	runCmd.Flags().StringVar(&modeName, "mode", "both", "Queue discipline: single, independent or both")
	runCmd.Flags().StringVar(&configPath, "config", "", "Optional YAML run configuration")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write reports as JSON to this file")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Per-customer trace level (none, service)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)
}
