package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stemsi/ailit-assessment/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the dimensions and question counts of the catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSELF-RATING\tSCENARIO")
		for _, d := range cat.Dimensions() {
			var rating, scenario int
			for _, q := range d.Questions {
				if q.Kind == model.QuestionKindScenario {
					scenario++
				} else {
					rating++
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", d.ID, d.Title, rating, scenario)
		}
		return w.Flush()
	},
}
