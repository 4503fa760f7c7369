package cli

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/relog-cli/relog/internal/changelog"
	clierrors "github.com/relog-cli/relog/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths-or-globs...]",
	Short: "Compile and validate changelog documents",
	Long: `Compile documents (resolving includes) and check every schema
constraint: version format, release dates, recognized tags, ticket
references, duplicate versions, and include cycles.

All violations are reported, not just the first.

Exit codes:
  0 - All documents valid
  1 - Validation failed
  3 - Invalid arguments`,
	Example: `  # Validate the configured default document
  relog validate

  # Validate specific documents
  relog validate CHANGES.relog doc/changelog/**/*.relog`,
	GroupID: GroupDocument,
	RunE:    runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type validateResult struct {
	path   string
	issues []error
	err    error
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths, err := expandPathArgs(args)
	if err != nil {
		return err
	}

	results := make([]validateResult, len(paths))

	// Documents are independent; compile and validate them in parallel.
	grp := new(errgroup.Group)
	var mu sync.Mutex
	for i, path := range paths {
		grp.Go(func() error {
			_, issues, err := validateDocument(path)
			mu.Lock()
			results[i] = validateResult{path: path, issues: issues, err: err}
			mu.Unlock()
			return nil
		})
	}
	grp.Wait()

	return reportValidation(cmd, results)
}

// expandPathArgs resolves CLI path arguments, expanding globs. With no
// arguments the configured default document is used.
func expandPathArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{cfg.Document}, nil
	}

	var paths []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, clierrors.NewArgumentError(fmt.Sprintf("invalid glob pattern %q: %v", arg, err))
		}
		if len(matches) == 0 {
			return nil, clierrors.NewArgumentError(
				fmt.Sprintf("no documents match %q", arg),
				"Check the path or glob pattern",
				"Run 'relog init' to scaffold a starter document")
		}
		paths = append(paths, matches...)
	}

	sort.Strings(paths)
	return paths, nil
}

func reportValidation(cmd *cobra.Command, results []validateResult) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	failed := 0
	for _, res := range results {
		switch {
		case res.err != nil:
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", red("✗"), res.path)
			fmt.Fprintf(cmd.OutOrStdout(), "    %v\n", res.err)
		case len(res.issues) > 0:
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d problem(s))\n", red("✗"), res.path, len(res.issues))
			for _, issue := range res.issues {
				printIssue(cmd, issue)
			}
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), res.path)
		}
	}

	if failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d document(s) failed validation\n", failed, len(results))
		return NewExitError(ExitValidationFailed)
	}

	return nil
}

func printIssue(cmd *cobra.Command, issue error) {
	if ve, ok := issue.(*changelog.ValidationError); ok && ve.Line > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "    line %d: %v\n", ve.Line, ve)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "    %v\n", issue)
}
