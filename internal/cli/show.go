package cli

import (
	"errors"
	"fmt"

	"github.com/relog-cli/relog/internal/changelog"
	"github.com/spf13/cobra"
)

var showDocFlag string

var showCmd = &cobra.Command{
	Use:   "show <version>",
	Short: "Show a single release with terminal formatting",
	Long: `Show all entries for one release. Accepts "v0.6.0", "0.6.0", or
"unreleased".`,
	Example: `  relog show 0.9.0
  relog show unreleased
  relog show v1.2.0 --document doc/CHANGES.relog`,
	GroupID: GroupDocument,
	Args:    cobra.ExactArgs(1),
	RunE:    runShow,
}

func init() {
	showCmd.Flags().StringVar(&showDocFlag, "document", "", "Document path (default from config)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	path := cfg.Document
	if showDocFlag != "" {
		path = showDocFlag
	}

	doc, err := compileDocument(path)
	if err != nil {
		return err
	}

	release, err := doc.GetRelease(args[0])
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", args[0])
			fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
			for _, v := range doc.ListVersions() {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
			}
			return NewExitError(ExitInvalidArguments)
		}
		return fmt.Errorf("getting release: %w", err)
	}

	return changelog.FormatRelease(release, cmd.OutOrStdout(), formatOptions())
}
