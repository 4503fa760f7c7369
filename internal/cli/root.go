// Package cli implements the relog command surface.
package cli

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/relog-cli/relog/internal/config"
	clierrors "github.com/relog-cli/relog/internal/errors"
	"github.com/relog-cli/relog/internal/git"
	"github.com/spf13/cobra"
)

// Command group IDs for help output organization.
const (
	GroupDocument = "document"
	GroupInternal = "internal"
)

var (
	configPathFlag string
	plainFlag      bool
	debugFlag      bool

	// cfg is the merged configuration, loaded before any command runs.
	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "relog",
	Short: "Changelog document toolkit",
	Long: `relog parses, validates, composes, and renders changelog documents
written in directive markup (.. changelog:: / .. change:: blocks with
:tags: and :tickets: fields, and .. include:: composition).`,
	Example: `  relog validate
  relog render -o CHANGELOG.md
  relog show unreleased
  relog search --tag bug --last 10`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPathFlag)
		if err != nil {
			return clierrors.Wrap(err, clierrors.Configuration,
				"Check the YAML syntax of your config file",
				"Run 'relog init' to scaffold a valid config")
		}

		if plainFlag {
			color.NoColor = true
			cfg.Render.Plain = true
		}
		if debugFlag {
			git.SetDebugLogger(func(format string, args ...any) {
				cmd.PrintErrf(format+"\n", args...)
			})
		}
		return nil
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupDocument, Title: "Document Commands:"},
		&cobra.Group{ID: GroupInternal, Title: "Internal Commands:"},
	)

	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to project config file (default .relog.yml)")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "Plain output (no colors)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// Execute runs the root command. Structured CLI errors are printed
// with remediation guidance; ExitErrors terminate the process with
// their code.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.PrintError(cliErr)
		os.Exit(exitCodeFor(cliErr.Category))
	}

	rootCmd.PrintErrln("Error:", err)
	return err
}

func exitCodeFor(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Document:
		return ExitValidationFailed
	default:
		return 1
	}
}

// documentPath resolves the document path from command args, falling
// back to the configured default.
func documentPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Document
}
