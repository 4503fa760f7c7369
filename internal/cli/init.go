package cli

import (
	"fmt"
	"os"

	"github.com/relog-cli/relog/internal/config"
	clierrors "github.com/relog-cli/relog/internal/errors"
	"github.com/spf13/cobra"
)

var initForceFlag bool

var initCmd = &cobra.Command{
	Use:   "init [project]",
	Short: "Scaffold a starter document and project config",
	Long: `Create a starter changelog document at the configured path and a
commented .relog.yml project config. Existing files are left alone
unless --force is given.`,
	Example: `  relog init myproject
  relog init myproject --force`,
	GroupID: GroupInternal,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForceFlag, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	project := "myproject"
	if len(args) == 1 {
		project = args[0]
	}

	if err := writeScaffold(cfg.Document, starterDocument(project)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", cfg.Document)

	if err := writeScaffold(config.ProjectConfigPath(), config.GetDefaultConfigTemplate()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.ProjectConfigPath())

	return nil
}

func writeScaffold(path, content string) error {
	if _, err := os.Stat(path); err == nil && !initForceFlag {
		return clierrors.NewRuntimeError(
			fmt.Sprintf("%s already exists", path),
			"Use --force to overwrite it")
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing scaffold")
	}
	return nil
}

func starterDocument(project string) string {
	return fmt.Sprintf(`.. project:: %s

.. changelog::
    :version: unreleased

    .. change::
        :tags: feature, general

        Describe your first change here.
`, project)
}
