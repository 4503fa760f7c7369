package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/relog-cli/relog/internal/changelog"
	clierrors "github.com/relog-cli/relog/internal/errors"
	"github.com/relog-cli/relog/internal/git"
	"github.com/spf13/cobra"
)

var verifySuggestFlag bool

var verifyTagsCmd = &cobra.Command{
	Use:   "verify-tags [path]",
	Short: "Cross-check released versions against git tags",
	Long: `Compile a document and compare its released versions with the
semver tags of the enclosing git repository. Reports versions missing
a tag and tags missing a release.

Exit codes:
  0 - Document and tags agree
  1 - Mismatches found
  4 - Not inside a git repository`,
	Example: `  relog verify-tags
  relog verify-tags doc/CHANGES.relog --suggest-next`,
	GroupID: GroupDocument,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runVerifyTags,
}

func init() {
	verifyTagsCmd.Flags().BoolVar(&verifySuggestFlag, "suggest-next", false, "Also suggest the next version from unreleased entries")
	rootCmd.AddCommand(verifyTagsCmd)
}

func runVerifyTags(cmd *cobra.Command, args []string) error {
	path := documentPath(args)

	doc, err := compileDocument(path)
	if err != nil {
		return err
	}

	if !git.IsRepository(path) {
		clierrors.PrintError(clierrors.NewRuntimeError(
			fmt.Sprintf("%s is not inside a git repository", path),
			"Run verify-tags from within the repository the document describes"))
		return NewExitError(ExitMissingPrerequisite)
	}

	report, err := git.VerifyReleaseTags(doc, path)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "verifying tags")
	}

	printTagReport(cmd, report)

	if verifySuggestFlag {
		printSuggestion(cmd, doc)
	}

	if !report.Clean() {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

func printTagReport(cmd *cobra.Command, report *git.TagReport) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d release(s) match a tag\n", green("✓"), len(report.Matched))

	for _, v := range report.MissingTags {
		fmt.Fprintf(cmd.OutOrStdout(), "%s release %s has no tag (expected v%s)\n", red("✗"), v, v)
	}
	for _, t := range report.UntrackedTags {
		fmt.Fprintf(cmd.OutOrStdout(), "%s tag v%s has no release in the document\n", yellow("!"), t)
	}
}

func printSuggestion(cmd *cobra.Command, doc *changelog.Document) {
	next, err := git.SuggestNextVersion(doc)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nNo version suggestion: %v\n", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nSuggested next version: %s\n", next)
}
