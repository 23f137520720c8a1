package judge

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/AhsanRiaz786/the-sentinel/config"
)

// RunnerInitArg is the hidden CLI subcommand the sandboxed runner
// re-execs itself as, so rlimits can be installed on the child before
// the user binary replaces its image (see cmd/runner_init.go). os/exec
// forks and execs atomically; there is no hook in between to call
// setrlimit from pure Go, short of cgo, so the runner spawns a copy of
// itself whose only job is: install rlimits, then exec the target.
const RunnerInitArg = "runner-init"

// Run launches binaryPath to completion or termination under the
// resource limits and wall-clock watchdog described by the spec, and
// returns a populated ExecResult (status/output/timing/exit fields; it
// does not set Banned or CompileLog — those belong to earlier stages).
func Run(cfg *config.Config, binaryPath string) ExecResult {
	self, err := os.Executable()
	if err != nil {
		return ExecResult{Status: StatusRuntimeError, Output: "failed to resolve own executable: " + err.Error()}
	}

	r, w, err := os.Pipe()
	if err != nil {
		return ExecResult{Status: StatusRuntimeError, Output: "failed to create output pipe: " + err.Error()}
	}

	args := []string{
		RunnerInitArg,
		"--cpu", strconv.Itoa(cfg.CPULimit()),
		"--cpu-hard", strconv.Itoa(cfg.CPULimitHard()),
		"--as-mb", strconv.Itoa(cfg.AddressSpaceLimit()),
		"--fsize-mb", strconv.Itoa(cfg.FileSizeLimit()),
		"--", binaryPath,
	}
	cmd := exec.Command(self, args...)
	cmd.Stdout = w
	cmd.Stderr = w
	cmd.SysProcAttr = runnerSysProcAttr()

	start := time.Now()
	if err := cmd.Start(); err != nil {
		w.Close()
		r.Close()
		return ExecResult{Status: StatusRuntimeError, Output: "failed to start sandboxed process: " + err.Error()}
	}
	w.Close() // parent's copy; the child (and its exec'd image) hold the real one open

	outputCh := make(chan []byte, 1)
	go func() {
		outputCh <- drainCapped(r, cfg.OutputCeiling())
	}()

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	timeout := time.Duration(cfg.WallClock()) * time.Millisecond
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	timedOut := false
	select {
	case waitErr = <-waitDone:
	case <-timer.C:
		timedOut = true
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		waitErr = <-waitDone
	}
	elapsed := time.Since(start)
	output := <-outputCh
	r.Close()

	result := ExecResult{
		Output:   string(output),
		TimeMS:   elapsed.Milliseconds(),
		TimedOut: timedOut,
	}
	result.MaxRSSKB = maxRSSKB(cmd.ProcessState)
	classify(&result, timedOut, cmd.ProcessState, waitErr)
	return result
}

// drainCapped reads r to EOF, keeping at most n bytes (n<=0 means
// unlimited) and silently discarding anything beyond that so the child
// is never blocked on a full pipe and truncation is never an error.
func drainCapped(r io.Reader, n int) []byte {
	buf := make([]byte, 4096)
	var kept []byte
	for {
		read, err := r.Read(buf)
		if read > 0 {
			switch {
			case n <= 0:
				kept = append(kept, buf[:read]...)
			case len(kept) < n:
				room := n - len(kept)
				if room > read {
					room = read
				}
				kept = append(kept, buf[:room]...)
			}
		}
		if err != nil {
			return kept
		}
	}
}

// maxRSSKB extracts peak resident set size (KiB, per getrusage(2) on
// Linux — see SPEC_FULL.md §4.4 for the cross-host unit caveat) from the
// reaped child's resource usage. Returns 0 if unavailable.
func maxRSSKB(state *os.ProcessState) int64 {
	if state == nil {
		return 0
	}
	if rusage, ok := state.SysUsage().(*syscall.Rusage); ok {
		return int64(rusage.Maxrss)
	}
	return 0
}

// classify applies the priority-ordered verdict table from spec.md §4.4:
// timeout outranks signal outranks clean exit outranks non-zero exit.
func classify(result *ExecResult, timedOut bool, state *os.ProcessState, waitErr error) {
	if timedOut {
		result.Status = StatusTimeLimitExceeded
		return
	}
	if state == nil {
		result.Status = StatusRuntimeError
		if waitErr != nil {
			result.Output = appendDiagnostic(result.Output, waitErr.Error())
		}
		return
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		result.Status = StatusRuntimeError
		result.TermSignal = int(ws.Signal())
		return
	}
	if state.ExitCode() == 0 {
		result.Status = StatusSuccess
		return
	}
	result.Status = StatusRuntimeError
	result.ExitCode = state.ExitCode()
}

func appendDiagnostic(output, diag string) string {
	if output == "" {
		return diag
	}
	return fmt.Sprintf("%s\n%s", output, diag)
}
