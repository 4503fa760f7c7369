package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	clierrors "github.com/relog-cli/relog/internal/errors"
	"github.com/spf13/cobra"
)

var (
	watchOutputFlag   string
	watchDebounceFlag time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-validate and re-render a document when its files change",
	Long: `Watch a document and every file it includes. On change, the
document is recompiled and validated; with --output, markdown is
re-rendered as well. Press Ctrl+C to exit.`,
	Example: `  relog watch
  relog watch doc/CHANGES.relog --output CHANGELOG.md
  relog watch --debounce 500ms`,
	GroupID: GroupDocument,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputFlag, "output", "o", "", "Re-render markdown to this file on change")
	watchCmd.Flags().DurationVar(&watchDebounceFlag, "debounce", 300*time.Millisecond, "Quiet period before reacting to a burst of changes")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchDebounceFlag < 50*time.Millisecond {
		return clierrors.NewArgumentError("debounce must be at least 50ms")
	}

	path := documentPath(args)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "creating file watcher")
	}
	defer watcher.Close()

	// First pass also discovers the include set to watch.
	sources := rebuild(cmd, path)
	if err := watchDirs(watcher, path, sources); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to exit)\n", path)

	return watchLoop(cmd.Context(), cmd, watcher, path)
}

// watchDirs watches the parent directories of the document and all its
// sources. Watching directories instead of files survives the
// rename-and-replace pattern editors use when saving.
func watchDirs(watcher *fsnotify.Watcher, path string, sources []string) error {
	dirs := map[string]bool{filepath.Dir(path): true}
	for _, src := range sources {
		dirs[filepath.Dir(src)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime,
				fmt.Sprintf("watching directory %s", dir))
		}
	}
	return nil
}

func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher, path string) error {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			// Debounce bursts of events from a single save.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounceFlag, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			sources := rebuild(cmd, path)
			if err := watchDirs(watcher, path, sources); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}

// rebuild recompiles, validates, and optionally re-renders the
// document, printing a one-line status. It returns the compiled
// source set so the caller can extend the watch list.
func rebuild(cmd *cobra.Command, path string) []string {
	stamp := time.Now().Format("15:04:05")
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	doc, issues, err := validateDocument(path)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s %v\n", stamp, red("✗"), err)
		return nil
	}
	if len(issues) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s %d validation problem(s)\n", stamp, red("✗"), len(issues))
		for _, issue := range issues {
			printIssue(cmd, issue)
		}
		return doc.Sources
	}

	if watchOutputFlag != "" {
		if err := renderToFile(doc, watchOutputFlag); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s %v\n", stamp, red("✗"), err)
			return doc.Sources
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s valid; rendered %s\n", stamp, green("✓"), watchOutputFlag)
		return doc.Sources
	}

	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s valid (%d release(s), %d entr(ies))\n",
		stamp, green("✓"), doc.ReleaseCount(), doc.EntryCount())
	return doc.Sources
}
