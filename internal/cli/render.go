package cli

import (
	"fmt"
	"os"

	"github.com/relog-cli/relog/internal/changelog"
	clierrors "github.com/relog-cli/relog/internal/errors"
	"github.com/spf13/cobra"
)

var renderOutputFlag string

var renderCmd = &cobra.Command{
	Use:   "render [path]",
	Short: "Render a compiled document as markdown",
	Long: `Compile a document (resolving includes), validate it, and render
markdown to stdout or a file. Ticket and cross-reference links use the
configured URL templates; the configured repo_url enables version
comparison links in the footer.`,
	Example: `  # Render the default document to stdout
  relog render

  # Render a specific document to CHANGELOG.md
  relog render doc/CHANGES.relog -o CHANGELOG.md`,
	GroupID: GroupDocument,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutputFlag, "output", "o", "", "Write markdown to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	doc, issues, err := validateDocument(documentPath(args))
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		for _, issue := range issues {
			printIssue(cmd, issue)
		}
		return clierrors.NewDocumentError(
			fmt.Sprintf("document has %d validation problem(s)", len(issues)),
			"Fix the problems above, then re-run 'relog render'")
	}

	if renderOutputFlag == "" {
		return changelog.RenderMarkdown(doc, cmd.OutOrStdout(), renderOptions())
	}

	f, err := os.Create(renderOutputFlag)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "creating output file")
	}
	defer f.Close()

	if err := changelog.RenderMarkdown(doc, f, renderOptions()); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "rendering markdown")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d release(s) to %s\n", doc.ReleaseCount(), renderOutputFlag)
	return nil
}
