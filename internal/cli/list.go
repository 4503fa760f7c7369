package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listSortedFlag bool

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List releases with dates and entry counts",
	Example: `  relog list
  relog list --sorted
  relog list doc/CHANGES.relog`,
	GroupID: GroupDocument,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVar(&listSortedFlag, "sorted", false, "Sort released versions in descending semver order")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	doc, err := compileDocument(documentPath(args))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tRELEASED\tENTRIES")

	if listSortedFlag {
		if unreleased := doc.GetUnreleased(); unreleased != nil {
			fmt.Fprintf(w, "unreleased\t-\t%d\n", unreleased.EntryCount())
		}
		for _, version := range doc.ListVersionsSorted() {
			release, err := doc.GetRelease(version)
			if err != nil {
				return fmt.Errorf("getting release: %w", err)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\n", release.Version, release.Released, release.EntryCount())
		}
	} else {
		for _, r := range doc.Releases {
			released := r.Released
			if released == "" {
				released = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\n", r.Version, released, r.EntryCount())
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d release(s), %d entr(ies)\n", doc.ReleaseCount(), doc.EntryCount())
	return nil
}
