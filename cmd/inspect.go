package cmd

import (
	"context"
	"fmt"
	"io"

	"reconciler/core/tuple"
	"reconciler/feature/report"

	"github.com/spf13/cobra"
)

// inspectCmd prints both schemas and how they line up, without reading rows.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the schemas of both sources and the comparison layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		layout, err := env.service.Layout(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printSchema(out, "left", env.cfg.Compare.Left.Describe(), layout.Left)
		printSchema(out, "right", env.cfg.Compare.Right.Describe(), layout.Right)
		return report.NewConsole(out, report.NoColor()).HandleLayout(layout)
	},
}

func printSchema(w io.Writer, side, source string, schema *tuple.Schema) {
	fmt.Fprintf(w, "%s: %s\n", side, source)
	for _, col := range schema.Columns() {
		typing := "weak"
		if col.Strong {
			typing = "strong"
		}
		fmt.Fprintf(w, "  %-24s %-8s %s\n", col.Name, col.Kind, typing)
	}
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
