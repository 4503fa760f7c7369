package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/relog-cli/relog/internal/changelog"
	clierrors "github.com/relog-cli/relog/internal/errors"
	"github.com/spf13/cobra"
)

var (
	convertToFlag     string
	convertOutputFlag string
)

var convertCmd = &cobra.Command{
	Use:   "convert [path]",
	Short: "Convert a compiled document to another representation",
	Long: `Compile a document (resolving includes) and emit it as YAML,
markdown, or self-contained canonical directive markup.`,
	Example: `  relog convert --to yaml
  relog convert doc/CHANGES.relog --to directive -o CHANGES_full.relog`,
	GroupID: GroupDocument,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertToFlag, "to", "yaml", "Output format: yaml | markdown | directive")
	convertCmd.Flags().StringVarP(&convertOutputFlag, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	doc, err := compileDocument(documentPath(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if convertOutputFlag != "" {
		f, err := os.Create(convertOutputFlag)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "creating output file")
		}
		defer f.Close()
		out = f
	}

	if err := writeConverted(doc, out); err != nil {
		return err
	}

	if convertOutputFlag != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", convertOutputFlag, convertToFlag)
	}
	return nil
}

func writeConverted(doc *changelog.Document, out io.Writer) error {
	switch convertToFlag {
	case "yaml":
		data, err := changelog.MarshalYAML(doc)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "converting to YAML")
		}
		_, err = out.Write(data)
		return err
	case "markdown":
		return changelog.RenderMarkdown(doc, out, renderOptions())
	case "directive":
		return changelog.WriteDirective(doc, out)
	default:
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("unknown output format %q", convertToFlag),
			"relog convert [path] --to yaml|markdown|directive")
	}
}
