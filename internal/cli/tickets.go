package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets [path]",
	Short: "List every ticket referenced in a document",
	Long: `List the deduplicated, ascending ticket references across all
releases, optionally as URLs using the configured template.`,
	GroupID: GroupDocument,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runTickets,
}

func init() {
	rootCmd.AddCommand(ticketsCmd)
}

func runTickets(cmd *cobra.Command, args []string) error {
	doc, err := compileDocument(documentPath(args))
	if err != nil {
		return err
	}

	tickets := doc.Tickets()
	if len(tickets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No ticket references found.")
		return nil
	}

	template := cfg.Tickets.URLTemplate
	for _, t := range tickets {
		if template != "" {
			fmt.Fprintln(cmd.OutOrStdout(), strings.ReplaceAll(template, "{ticket}", fmt.Sprintf("%d", t)))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "#%d\n", t)
	}

	return nil
}
