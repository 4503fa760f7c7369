package cli

import (
	"fmt"

	"github.com/relog-cli/relog/internal/changelog"
	clierrors "github.com/relog-cli/relog/internal/errors"
	"github.com/spf13/cobra"
)

var (
	searchTagFlag    string
	searchTicketFlag int
	searchLastFlag   int
)

var searchCmd = &cobra.Command{
	Use:   "search [path]",
	Short: "Search entries by tag or ticket reference",
	Long: `Search a compiled document's entries. Filters combine: --tag and
--ticket together match entries satisfying both. With no filters the
most recent entries are shown (see --last).`,
	Example: `  # All ORM bug entries
  relog search --tag orm

  # Entries referencing ticket 2887
  relog search --ticket 2887

  # The 10 most recent entries
  relog search --last 10`,
	GroupID: GroupDocument,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchTagFlag, "tag", "", "Only entries carrying this tag")
	searchCmd.Flags().IntVar(&searchTicketFlag, "ticket", 0, "Only entries referencing this ticket")
	searchCmd.Flags().IntVar(&searchLastFlag, "last", 0, "Limit to the N most recent matches")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchTicketFlag < 0 {
		return clierrors.NewArgumentError("--ticket must be a positive integer")
	}

	doc, err := compileDocument(documentPath(args))
	if err != nil {
		return err
	}

	entries := filterEntries(doc)
	if searchLastFlag > 0 && len(entries) > searchLastFlag {
		entries = entries[:searchLastFlag]
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(entries, cmd.OutOrStdout(), formatOptions()); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d matching entr(ies)\n", len(entries))
	return nil
}

func filterEntries(doc *changelog.Document) []changelog.FlatEntry {
	entries := doc.AllEntries()
	if searchLastFlag > 0 && searchTagFlag == "" && searchTicketFlag == 0 {
		return doc.GetLastN(searchLastFlag)
	}

	var matched []changelog.FlatEntry
	for _, e := range entries {
		if searchTagFlag != "" && !e.HasTag(searchTagFlag) {
			continue
		}
		if searchTicketFlag > 0 && !e.HasTicket(searchTicketFlag) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}
