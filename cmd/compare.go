package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/safal938/iso-clinic-v2-sub000/sim/comparison"
	"github.com/safal938/iso-clinic-v2-sub000/sim/results"
)

var (
	baselineRooms  int    // Nurse rooms of the baseline clinic
	candidateRooms int    // Nurse rooms of the candidate clinic
	resultsDB      string // SQLite ledger path ("" = do not record)
)

// compareCmd runs two clinics in lockstep and prints the diff
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run a standard and an AI-augmented clinic side by side",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		arms, label, err := loadArms(cmd, baselineRooms, candidateRooms)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		run, err := newComparativeRun(arms)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Comparing %s (%d rooms) against %s (%d rooms)",
			arms[0].ID, arms[0].Config.Topology.NurseRooms, arms[1].ID, arms[1].Config.Topology.NurseRooms)

		res := comparison.Evaluate(run, maxTicks)
		res.Comparison.Print(os.Stdout)
		fmt.Printf("Wall Time            : %s\n", res.WallTime)

		if traceOut != "" {
			for id, tr := range res.Traces {
				path, err := writeTrace(traceOut, string(id), tr)
				if err != nil {
					logrus.Fatalf("%v", err)
				}
				logrus.Infof("Trace for %s written to %s (%d transitions)", id, path, res.Summaries[id].TotalTransitions)
			}
		}

		if resultsDB != "" {
			id, err := recordRun(resultsDB, label, arms[0].Config.Seed, res)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Run recorded as %s in %s", id, resultsDB)
		}
	},
}

// newComparativeRun pairs the first arm as baseline with the second as candidate.
func newComparativeRun(arms []armConfig) (*comparison.ComparativeRun, error) {
	if len(arms) != 2 {
		return nil, fmt.Errorf("comparison needs exactly two arms, got %d", len(arms))
	}
	return comparison.NewComparativeRun(
		comparison.ArmID(arms[0].ID), arms[0].Config,
		comparison.ArmID(arms[1].ID), arms[1].Config,
	)
}

// recordRun appends res to the ledger at path and returns the run ID.
func recordRun(path, label string, seed int64, res *comparison.EvaluationResult) (string, error) {
	ledger, err := results.Open(path)
	if err != nil {
		return "", err
	}
	defer ledger.Close()

	rec, err := results.NewRunRecord(label, seed, res.Comparison, res.WallTime)
	if err != nil {
		return "", err
	}
	if err := ledger.Save(rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func init() {
	registerClinicFlags(compareCmd)
	compareCmd.Flags().IntVar(&baselineRooms, "baseline-rooms", 1, "Nurse rooms of the standard clinic")
	compareCmd.Flags().IntVar(&candidateRooms, "candidate-rooms", 3, "Nurse rooms of the AI-augmented clinic")
	compareCmd.Flags().StringVar(&resultsDB, "results-db", "", "Record the comparison in this SQLite ledger")
	compareCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write zstd JSONL traces to <prefix>-<arm>.jsonl.zst (enables transition tracing)")

	rootCmd.AddCommand(compareCmd)
}
