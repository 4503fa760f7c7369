package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/relog-cli/relog/internal/changelog"
	"github.com/spf13/cobra"
)

var (
	changelogLastFlag   int
	changelogRemoteFlag bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog [version]",
	Short: "View relog's own release notes",
	Long: `View relog's own release notes from the embedded changelog.

By default, shows the 5 most recent entries. Use a version argument to
see all entries for a specific version, or use --last to control entry
count.

The changelog is embedded at build time, so it shows changes up to when
this binary was built. Use --remote to fetch the latest published
document instead (falls back to the embedded one when offline).`,
	Example: `  relog changelog              # Show 5 most recent entries
  relog changelog v0.3.0       # Show all entries for version 0.3.0
  relog changelog unreleased   # Show unreleased changes
  relog changelog --last 10    # Show 10 most recent entries
  relog changelog --remote     # Fetch the latest published notes`,
	GroupID: GroupInternal,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runChangelogView,
}

func init() {
	changelogCmd.Flags().IntVar(&changelogLastFlag, "last", 5, "Number of entries to show")
	changelogCmd.Flags().BoolVar(&changelogRemoteFlag, "remote", false, "Fetch the latest published changelog")
	rootCmd.AddCommand(changelogCmd)
}

func runChangelogView(cmd *cobra.Command, args []string) error {
	doc, err := loadOwnChangelog(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return showOwnVersion(doc, args[0], cmd)
	}

	return showLastEntries(doc, changelogLastFlag, cmd)
}

func loadOwnChangelog(cmd *cobra.Command) (*changelog.Document, error) {
	if !changelogRemoteFlag {
		doc, err := changelog.LoadEmbedded()
		if err != nil {
			return nil, fmt.Errorf("loading embedded changelog: %w", err)
		}
		return doc, nil
	}

	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr), spinner.WithSuffix(" fetching changelog..."))
	spin.Start()

	ctx, cancel := context.WithTimeout(cmd.Context(), changelog.DefaultRemoteTimeout)
	defer cancel()

	doc, isRemote, err := changelog.FetchRemoteWithFallback(ctx)
	spin.Stop()
	if err != nil {
		return nil, fmt.Errorf("fetching changelog: %w", err)
	}
	if !isRemote {
		fmt.Fprintln(cmd.ErrOrStderr(), "Remote fetch failed; showing embedded changelog.")
	}
	return doc, nil
}

func showOwnVersion(doc *changelog.Document, version string, cmd *cobra.Command) error {
	release, err := doc.GetRelease(version)
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", version)
			fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
			for _, v := range doc.ListVersions() {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
			}
			return NewExitError(ExitInvalidArguments)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	return changelog.FormatRelease(release, cmd.OutOrStdout(), formatOptions())
}

func showLastEntries(doc *changelog.Document, n int, cmd *cobra.Command) error {
	entries := doc.GetLastN(n)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(entries, cmd.OutOrStdout(), formatOptions()); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := doc.EntryCount()
	if total > len(entries) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}

	return nil
}
