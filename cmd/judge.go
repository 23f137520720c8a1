package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AhsanRiaz786/the-sentinel/config"
	"github.com/AhsanRiaz786/the-sentinel/internal/judge"
)

var judgeCmd = &cobra.Command{
	Use:   "judge SOURCE...",
	Short: "Compile and run one or more C source files, emitting one verdict per file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJudge,
}

func init() {
	rootCmd.AddCommand(judgeCmd)
}

// runJudge loads the configured limits, hands the argument paths to the
// batch supervisor, and streams verdict records to stdout. It exits 0
// whenever the batch itself ran to completion, independent of whether
// individual submissions were banned, failed to compile, or failed at
// runtime — those are reported as verdicts, not CLI errors.
//
// Worker pool size and queue capacity are fixed for the run, but a
// background watch on the config file keeps the live ConfigSource
// current: a config edit during a long batch takes effect starting
// with the next submission any worker dequeues.
func runJudge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := judge.NewConfigSource(cfg)
	go func() {
		if err := config.Watch(ctx, source.Store); err != nil && ctx.Err() == nil {
			slog.Warn("config watch stopped", "error", err)
		}
	}()

	return judge.RunBatchWithSource(ctx, source, cfg.WorkerCount(), cfg.QueueCap(), args, os.Stdout)
}
