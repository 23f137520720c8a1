package judge

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/AhsanRiaz786/the-sentinel/config"
)

func requireCC(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("cc"); err != nil {
		t.Skip("system C compiler (cc) not found on PATH, skipping")
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{ScratchDir: dir}
}

func TestCompileSuccess(t *testing.T) {
	requireCC(t)
	path := writeSource(t, "int main(){return 0;}\n")
	result, err := Compile(context.Background(), testConfig(t), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected successful compile, log: %s", result.Log)
	}
	if _, statErr := os.Stat(result.BinaryPath); statErr != nil {
		t.Fatalf("expected binary at %s: %v", result.BinaryPath, statErr)
	}
	os.Remove(result.BinaryPath)
}

func TestCompileSyntaxError(t *testing.T) {
	requireCC(t)
	path := writeSource(t, "int main({\n")
	result, err := Compile(context.Background(), testConfig(t), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected compile failure for syntax error")
	}
	if result.Log == "" {
		t.Fatal("expected non-empty compile log")
	}
}

func TestCompileUsesUniqueScratchPaths(t *testing.T) {
	requireCC(t)
	path := writeSource(t, "int main(){return 0;}\n")
	cfg := testConfig(t)

	r1, err := Compile(context.Background(), cfg, path)
	if err != nil || !r1.OK {
		t.Fatalf("first compile failed: err=%v ok=%v log=%s", err, r1.OK, r1.Log)
	}
	defer os.Remove(r1.BinaryPath)

	r2, err := Compile(context.Background(), cfg, path)
	if err != nil || !r2.OK {
		t.Fatalf("second compile failed: err=%v ok=%v log=%s", err, r2.OK, r2.Log)
	}
	defer os.Remove(r2.BinaryPath)

	if r1.BinaryPath == r2.BinaryPath {
		t.Fatalf("expected distinct scratch paths, got the same: %s", r1.BinaryPath)
	}
	if filepath.Dir(r1.BinaryPath) != cfg.Scratch() {
		t.Fatalf("expected binary under scratch dir %s, got %s", cfg.Scratch(), r1.BinaryPath)
	}
}
