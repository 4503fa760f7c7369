package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/relog-cli/relog/internal/errors"
)

// runCommand executes the root command with args, capturing output.
// The user config lookup is pointed at an empty directory so the
// developer's own config never leaks into tests.
func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores flag variables to their defaults so one test's
// flags never leak into the next run.
func resetFlags() {
	configPathFlag = ""
	plainFlag = false
	debugFlag = false
	listSortedFlag = false
	showDocFlag = ""
	renderOutputFlag = ""
	convertToFlag = "yaml"
	convertOutputFlag = ""
	searchTagFlag = ""
	searchTicketFlag = 0
	searchLastFlag = 0
	initForceFlag = false
	verifySuggestFlag = false
	changelogLastFlag = 5
	changelogRemoteFlag = false
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "relog", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "plain", "debug"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "flag %s should exist", name)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"validate", "render", "show", "list", "search", "tickets",
		"init", "convert", "watch", "verify-tags", "changelog", "version",
	} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_Groups(t *testing.T) {
	ids := make(map[string]bool)
	for _, g := range rootCmd.Groups() {
		ids[g.ID] = true
	}

	assert.True(t, ids[GroupDocument])
	assert.True(t, ids[GroupInternal])
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := runCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Document Commands:")
}

func TestRootCmd_BadConfigPath(t *testing.T) {
	_, _, err := runCommand(t, "--config", "/nonexistent/relog.yml", "list")
	require.Error(t, err)

	cliErr := clierrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, clierrors.Configuration, cliErr.Category)
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, ExitInvalidArguments, exitCodeFor(clierrors.Argument))
	assert.Equal(t, ExitValidationFailed, exitCodeFor(clierrors.Document))
	assert.Equal(t, 1, exitCodeFor(clierrors.Runtime))
	assert.Equal(t, 1, exitCodeFor(clierrors.Configuration))
}
