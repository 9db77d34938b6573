package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stemsi/ailit-assessment/internal/exchange"
	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/scoring"
)

var errInconsistent = errors.New("stored results do not match rescoring")

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Rescore a result document and compare it with the stored results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := exchange.Parse(data)
		if err != nil {
			return err
		}

		log := cliLogger(cmd)
		v := exchange.Verify(scoring.NewEngine(cat, log), doc)
		v.Report.Log(log)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Participant: %s\n", doc.Participant.Name)
		fmt.Fprintf(out, "Timestamp:   %s\n\n", doc.Timestamp)

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DIMENSION\tSTORED\tRESCORED\tMEAN\tGATEKEEPER\tMATCH")
		for _, d := range v.Dimensions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%s\n",
				d.DimensionID, levelLabel(d.Stored), levelLabel(&d.Rescored),
				d.Rescored.MeanScore, d.Rescored.GatekeeperScore, yesNo(d.Match))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nAverage level: stored %s, rescored %s\n", v.StoredAverage, v.RescoredAverage)
		if !v.AverageMatches() {
			fmt.Fprintln(out, "Note: the stored average also counts dimensions that were in progress at export.")
		}

		if strict && (!v.Consistent() || !v.Report.Clean()) {
			return errInconsistent
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().Bool("strict", false, "Exit non-zero on any mismatch or restore finding")
}

func levelLabel(r *model.DimensionResult) string {
	if r == nil {
		return "-"
	}
	if r.Downgraded {
		return r.Level.String() + "*"
	}
	return r.Level.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
