package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/safal938/iso-clinic-v2-sub000/sim/results"
)

var (
	historyDB    string // SQLite ledger to read
	historyLimit int    // Number of runs to list (0 = all)
)

// historyCmd lists recorded comparisons
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List comparisons recorded in a results ledger",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		ledger, err := results.Open(historyDB)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer ledger.Close()

		runs, err := ledger.List(historyLimit)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := printHistory(os.Stdout, runs); err != nil {
			logrus.Fatalf("writing history: %v", err)
		}
	},
}

// printHistory writes one line per run, most recent first.
func printHistory(w io.Writer, runs []results.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No recorded runs.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRECORDED\tSCENARIO\tARMS\tARRIVALS\tLIFT\tCOST/TREATED")
	for _, r := range runs {
		lift := "n/a"
		if r.LiftDefined {
			lift = fmt.Sprintf("%.2fx", r.ProductivityLift)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s vs %s\t%d vs %d\t%s\t%s vs %s\n",
			shortID(r.ID), humanize.Time(r.RecordedAt), r.Scenario,
			r.BaselineArm, r.CandidateArm,
			r.BaselineArrivals, r.CandidateArrivals, lift,
			humanize.FormatFloat("#,###.##", r.BaselineCostPer),
			humanize.FormatFloat("#,###.##", r.CandidateCostPer))
	}
	return tw.Flush()
}

// shortID trims a run ID to its first group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "results-db", "clinicsim.db", "SQLite ledger to read")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to list (0 = all)")
	historyCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(historyCmd)
}
