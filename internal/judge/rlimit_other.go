//go:build !linux

package judge

import "fmt"

// InstallRlimits is a no-op on platforms without the Linux rlimit
// semantics the spec assumes. The wall-clock watchdog still applies.
func InstallRlimits(cpuSoftSeconds, cpuHardSeconds, addressSpaceMB, fileSizeMB int) {}

// ExecBinary is unsupported outside Linux, matching the corpus's
// pattern of an explicit "not supported on %s" platform guard rather
// than a silent partial implementation.
func ExecBinary(binaryPath string, argv []string) error {
	return fmt.Errorf("sandboxed rlimit exec is only supported on linux")
}
