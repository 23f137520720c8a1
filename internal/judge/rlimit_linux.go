//go:build linux

package judge

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

// InstallRlimits sets the CPU, address-space, and file-size limits on the
// current process before it execs the user binary. Failures are
// best-effort: the wall-clock watchdog in the parent is the hard
// backstop, so a setrlimit failure here is logged and ignored rather than
// aborting the run (spec.md §7, §9).
func InstallRlimits(cpuSoftSeconds, cpuHardSeconds, addressSpaceMB, fileSizeMB int) {
	setRlimit(unix.RLIMIT_CPU, uint64(cpuSoftSeconds), uint64(cpuHardSeconds))
	asBytes := uint64(addressSpaceMB) * 1024 * 1024
	setRlimit(unix.RLIMIT_AS, asBytes, asBytes)
	fsBytes := uint64(fileSizeMB) * 1024 * 1024
	setRlimit(unix.RLIMIT_FSIZE, fsBytes, fsBytes)
}

func setRlimit(resource int, cur, max uint64) {
	lim := unix.Rlimit{Cur: cur, Max: max}
	if err := unix.Setrlimit(resource, &lim); err != nil {
		slog.Warn("setrlimit failed", "resource", resource, "cur", cur, "max", max, "error", err)
	}
}

// ExecBinary replaces the current process image with binaryPath. It
// never returns on success.
func ExecBinary(binaryPath string, argv []string) error {
	if err := unix.Exec(binaryPath, argv, []string{}); err != nil {
		return fmt.Errorf("exec %s: %w", binaryPath, err)
	}
	return nil
}
