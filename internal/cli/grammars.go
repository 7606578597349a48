package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/octocheck/octocheck/internal/checks"
)

func newGrammarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List the supported report grammars",
		Run: func(cmd *cobra.Command, args []string) {
			tw := table.NewWriter()
			tw.AppendHeader(table.Row{"ID", "Name"})
			for _, id := range checks.GrammarIDs() {
				g, _ := checks.LookupGrammar(id)
				tw.AppendRow(table.Row{g.ID, g.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
		},
	}
}
