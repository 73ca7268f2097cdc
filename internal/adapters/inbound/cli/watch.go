package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/contractor-dev/contractor/internal/adapters/outbound/tui"
)

const watchDebounce = 300 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-validate contracts on every file change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runWatch(cmd, absPath, cmd.Context().Done())
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command, root string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root); err != nil {
		return fmt.Errorf("watch setup: %w", err)
	}

	svc := newValidateService()
	revalidate := func() {
		result, err := svc.ValidateProject(root)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "validation failed: %v\n", err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(result.Report))
	}

	revalidate()

	var timer *time.Timer
	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isIgnoredPath(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, revalidate)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}

var ignoredWatchDirs = []string{"node_modules", ".git", "dist", "build", "out", "coverage", ".contractor"}

func isIgnoredPath(path string) bool {
	for _, dir := range ignoredWatchDirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasSuffix(path, string(filepath.Separator)+dir) {
			return true
		}
	}
	return false
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if isIgnoredPath(path) {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}
