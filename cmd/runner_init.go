package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AhsanRiaz786/the-sentinel/internal/judge"
)

var (
	runnerInitCPU     int
	runnerInitCPUHard int
	runnerInitASMB    int
	runnerInitFSizeMB int
)

// runnerInitCmd is the self-re-exec shim the sandboxed runner launches
// as the actual child process (judge.RunnerInitArg). It installs the
// rlimits described in spec.md §4.4 and then replaces its own image
// with the user binary, so the watchdog in internal/judge.Run sees
// exactly one child PID from fork to reap. Never invoked directly.
var runnerInitCmd = &cobra.Command{
	Use:           judge.RunnerInitArg + " -- BINARY",
	Short:         "Install sandbox rlimits and exec the target binary (internal)",
	Hidden:        true,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRunnerInit,
}

func init() {
	runnerInitCmd.Flags().IntVar(&runnerInitCPU, "cpu", 2, "soft CPU time limit in seconds")
	runnerInitCmd.Flags().IntVar(&runnerInitCPUHard, "cpu-hard", 3, "hard CPU time limit in seconds")
	runnerInitCmd.Flags().IntVar(&runnerInitASMB, "as-mb", 256, "address space limit in MiB")
	runnerInitCmd.Flags().IntVar(&runnerInitFSizeMB, "fsize-mb", 10, "file size limit in MiB")
	rootCmd.AddCommand(runnerInitCmd)
}

func runRunnerInit(cmd *cobra.Command, args []string) error {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 || dash >= len(args) {
		return fmt.Errorf("runner-init: expected '-- BINARY' after flags")
	}
	target := args[dash:]

	judge.InstallRlimits(runnerInitCPU, runnerInitCPUHard, runnerInitASMB, runnerInitFSizeMB)

	if err := judge.ExecBinary(target[0], target); err != nil {
		fmt.Fprintf(os.Stderr, "runner-init: %v\n", err)
		os.Exit(127)
	}
	return nil // unreachable on success
}
