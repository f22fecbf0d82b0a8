package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/safal938/iso-clinic-v2-sub000/sim"
	"github.com/safal938/iso-clinic-v2-sub000/sim/trace"
)

var (
	// CLI flags shared by every command that builds a clinic
	seed            int64   // Seed for category, escalation and placement draws
	logLevel        string  // Log verbosity level
	scenarioPath    string  // YAML scenario file; flags below are ignored when set
	nurseRooms      int     // Nurse rooms of the single-instance clinic
	sessionMinutes  float64 // Session window in simulated minutes (0 = uncapped)
	minutesPerTick  float64 // Simulated minutes per tick
	spawnEveryTicks int64   // Spawn cadence in ticks (0 = no scheduled arrivals)
	escalationProb  float64 // Probability a nurse consult escalates to the hepatologist
	waitingTicks    int64   // Waiting room seat time before the first nurse attempt
	treatmentTicks  int64   // Nurse and hepatologist consult length
	retryTicks      int64   // Retry interval after losing a resource to contention
	walkingSpeed    float64 // Floor-plan units walked per tick
	traceLevel      string  // Trace verbosity (none, transitions)
	traceOut        string  // Path prefix for zstd JSONL trace export
	maxTicks        int64   // Safety cap for uncapped sessions

	// run-only flags
	armID string // Scenario arm to simulate
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "clinicsim",
	Short: "Tick-driven agent simulator for a liver clinic patient pathway",
}

// runCmd executes a single clinic to the end of its session
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one clinic to the end of its session and print its metrics",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		arms, label, err := loadArms(cmd, nurseRooms)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		arm, err := selectArm(arms, armID)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting clinic %q (%s): %d nurse rooms, seed=%d, session=%.0f min",
			arm.ID, label, arm.Config.Topology.NurseRooms, arm.Config.Seed, arm.Config.Timing.SessionMinutes)

		startTime := time.Now()
		s := sim.NewSimulator(arm.Config)
		s.RunSession(maxTicks)
		s.Stats.Print(os.Stdout)
		fmt.Printf("Wall Time            : %s\n", time.Since(startTime).Round(time.Millisecond))

		if traceOut != "" && s.Trace != nil {
			s.Trace.Config.Label = arm.ID
			path, err := writeTrace(traceOut, arm.ID, s.Trace)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Trace written to %s", path)
		}

		logrus.Info("Simulation complete.")
	},
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerClinicFlags attaches the flags that describe a clinic to cmd.
func registerClinicFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for category, escalation and placement draws")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (overrides the clinic flags)")

	cmd.Flags().Float64Var(&sessionMinutes, "session-minutes", sim.DefaultSessionMinutes, "Session window in simulated minutes (0 = uncapped)")
	cmd.Flags().Float64Var(&minutesPerTick, "minutes-per-tick", sim.DefaultMinutesPerTick, "Simulated minutes per tick")
	cmd.Flags().Int64Var(&spawnEveryTicks, "spawn-every", sim.DefaultSpawnEveryTicks, "Spawn a patient every N ticks (0 disables)")
	cmd.Flags().Float64Var(&escalationProb, "escalation", sim.DefaultEscalationProbability, "Probability a nurse consult escalates to the hepatologist")
	cmd.Flags().Int64Var(&waitingTicks, "waiting-ticks", sim.DefaultWaitingTicks, "Ticks seated in the waiting room before the first nurse attempt")
	cmd.Flags().Int64Var(&treatmentTicks, "treatment-ticks", sim.DefaultTreatmentTicks, "Ticks per nurse or hepatologist consult")
	cmd.Flags().Int64Var(&retryTicks, "retry-ticks", sim.DefaultRetryTicks, "Ticks before retrying a busy resource")
	cmd.Flags().Float64Var(&walkingSpeed, "speed", sim.DefaultSpeed, "Floor-plan units walked per tick")
	cmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Trace verbosity (none, transitions)")
	cmd.Flags().Int64Var(&maxTicks, "max-ticks", 1_000_000, "Tick cap for sessions without a session window")
}

// init sets up CLI flags and subcommands
func init() {
	registerClinicFlags(runCmd)
	runCmd.Flags().IntVar(&nurseRooms, "nurse-rooms", 3, "Number of nurse rooms")
	runCmd.Flags().StringVar(&armID, "arm", "", "Scenario arm to run (default: first arm)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write a zstd JSONL trace to <prefix>-<arm>.jsonl.zst (enables transition tracing)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
