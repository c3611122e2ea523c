// Package cli wires the Task Service, Board Service, and Sync Engine into a
// cobra command tree. Grounded in the teacher's cmd/backlog/main.go +
// internal/cli/*.go shape (one file per subcommand, a shared bootstrap
// helper, output.New(GetFormat()) for rendering) but rebuilt around this
// spec's single filesystem store instead of the teacher's pluggable
// multi-backend registry.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/boardsync/core/internal/board"
	"github.com/boardsync/core/internal/clock"
	"github.com/boardsync/core/internal/config"
	"github.com/boardsync/core/internal/credentials"
	"github.com/boardsync/core/internal/output"
	"github.com/boardsync/core/internal/store/filesystem"
	"github.com/boardsync/core/internal/store/remote"
	"github.com/boardsync/core/internal/sync"
	"github.com/boardsync/core/internal/task"
	"github.com/spf13/cobra"
)

var (
	formatFlag   string
	configFlag   string
	taskRootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "sltasks",
	Short: "A file-backed Kanban board that syncs with GitHub Projects",
	Long: `sltasks manages tasks as Markdown files with YAML frontmatter and
optionally keeps them in sync with a GitHub Projects (v2) board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "table", "Output format: table, json, plain, id-only")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to sltasks.yml (default: search . then ~/.config/sltasks)")
	rootCmd.PersistentFlags().StringVar(&taskRootFlag, "task-root", "", "Override the configured task_root directory")
}

// Execute runs the CLI, returning the error a command produced (if any) for
// the entrypoint to map to an exit code.
func Execute() error {
	return rootCmd.Execute()
}

// GetFormat returns the requested output format.
func GetFormat() string {
	return formatFlag
}

// formatter builds the output.Formatter for the requested format.
func formatter() output.Formatter {
	return output.New(output.Format(GetFormat()))
}

// app bundles the services every subcommand needs. Built once per
// invocation in a command's RunE via newApp().
type app struct {
	cfg   *config.Config
	store *filesystem.Store
	tasks *task.Service
	board *board.Service
	clock clock.Clock
}

func newApp() (*app, error) {
	cfg, loadErr := config.Load(configFlag)
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %s\n", loadErr)
	}
	if taskRootFlag != "" {
		cfg.TaskRoot = taskRootFlag
	}

	store, err := filesystem.New(cfg.TaskRoot, cfg.Board)
	if err != nil {
		return nil, fmt.Errorf("open task store at %q: %w", cfg.TaskRoot, err)
	}

	c := clock.Real{}
	logger := slog.Default()
	return &app{
		cfg:   cfg,
		store: store,
		tasks: task.New(store, cfg.Board, cfg.TaskRoot, c, logger),
		board: board.New(store, cfg.Board, c),
		clock: c,
	}, nil
}

// syncEngine builds the Sync Engine on demand: it requires a remote token
// and a configured github: block, neither of which every command needs.
func (a *app) syncEngine() (*sync.Engine, error) {
	if a.cfg.Remote == nil || a.cfg.Remote.ProjectURL == "" {
		return nil, fmt.Errorf("no github.project_url configured; run 'sltasks config show' to check your sltasks.yml")
	}

	if err := credentials.Init(); err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	token, err := credentials.GetGitHubToken()
	if err != nil {
		return nil, err
	}

	kind, owner, number, err := config.ParseProjectURL(a.cfg.Remote.ProjectURL)
	if err != nil {
		return nil, err
	}
	ownerType := remote.OwnerUser
	if kind == "org" {
		ownerType = remote.OwnerOrg
	}

	rc, err := remote.NewClient(context.Background(), token, ownerType, owner, a.cfg.Remote.DefaultRepo, a.cfg.Remote.BaseURL)
	if err != nil {
		return nil, err
	}

	return sync.New(a.cfg, a.store, rc, number, ownerType, owner, a.clock, slog.Default()), nil
}
