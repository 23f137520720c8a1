package judge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/AhsanRiaz786/the-sentinel/config"
)

// compileErrLog is used when the compiler exits non-zero but produced no
// diagnostics (missing or empty capture).
const compileErrLog = "compiler exited non-zero with no diagnostic output"

// CompileResult is the outcome of driving the system C compiler.
type CompileResult struct {
	BinaryPath string
	Log        string
	OK         bool
}

// Compile reserves a unique scratch path and invokes the system C
// compiler against srcPath with a fixed argument shape (c11, -O2, math
// library linked). Compiler stderr is captured and truncated to the
// configured ceiling. Every call gets its own UUID-named binary and log
// path under cfg.Scratch(), so concurrent workers never race on a shared
// capture file (see SPEC_FULL.md §4.3).
func Compile(ctx context.Context, cfg *config.Config, srcPath string) (CompileResult, error) {
	scratch := cfg.Scratch()
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return CompileResult{Log: fmt.Sprintf("failed to prepare scratch directory: %v", err)}, nil
	}

	id := uuid.NewString()
	binPath := filepath.Join(scratch, id+".bin")
	logPath := filepath.Join(scratch, id+".log")

	// Reserve the binary path: create-and-unlink a placeholder to
	// guarantee no collision with a concurrent worker before the
	// compiler writes its real output there.
	placeholder, err := os.OpenFile(binPath, os.O_CREATE|os.O_EXCL, 0o755)
	if err != nil {
		return CompileResult{Log: fmt.Sprintf("failed to reserve binary path: %v", err)}, nil
	}
	placeholder.Close()
	os.Remove(binPath)

	logFile, err := os.Create(logPath)
	if err != nil {
		return CompileResult{Log: fmt.Sprintf("failed to create compile log: %v", err)}, nil
	}
	defer os.Remove(logPath)
	defer logFile.Close()

	args := []string{"-std=c11", "-O2", srcPath, "-o", binPath, "-lm"}
	cmd := exec.CommandContext(ctx, cfg.Compiler(), args...)
	cmd.Stderr = logFile

	runErr := cmd.Run()

	if runErr != nil {
		logData, readErr := os.ReadFile(logPath)
		log := compileErrLog
		if readErr == nil && len(logData) > 0 {
			log = string(truncate(logData, cfg.CompileLogCeiling()))
		}
		os.Remove(binPath)
		return CompileResult{Log: log}, nil
	}

	return CompileResult{BinaryPath: binPath, OK: true}, nil
}

// truncate returns b capped to n bytes. n<=0 disables the ceiling.
func truncate(b []byte, n int) []byte {
	if n <= 0 || len(b) <= n {
		return b
	}
	return bytes.Clone(b[:n])
}
