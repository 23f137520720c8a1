package judge

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// BaseDenyTokens is the fixed, hard-coded deny list. Reimplementers must
// preserve exactly this set and exactly substring semantics — the screen
// is a coarse smoke test, not the real isolation boundary (that's the
// rlimit sandbox in runner.go).
var BaseDenyTokens = []string{
	"system(",
	"fork(",
	"exec",
	"popen(",
	"remove(",
	"rename(",
	"kill(",
	"chmod(",
	"chown(",
	"ptrace",
}

// Screen scans path line by line for any of the deny-list substrings
// (BaseDenyTokens plus any configured extras). It is purely textual,
// case-sensitive, and has no lexical or comment awareness: a match inside
// a string literal or comment still rejects the submission. On the first
// hit it short-circuits and returns the offending token. If the file
// cannot be opened, screening fails with a descriptive message.
func Screen(path string, extraTokens []string) (banned bool, offendingToken string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return true, "", fmt.Errorf("cannot open source: %w", err)
	}
	defer f.Close()

	tokens := make([]string, 0, len(BaseDenyTokens)+len(extraTokens))
	tokens = append(tokens, BaseDenyTokens...)
	tokens = append(tokens, extraTokens...)

	scanner := bufio.NewScanner(f)
	// Lines longer than bufio.Scanner's default buffer are still safe to
	// screen: grow the buffer ceiling well past any reasonable source line
	// instead of letting long lines fail the scan outright.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		for _, tok := range tokens {
			if strings.Contains(line, tok) {
				return true, tok, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return true, "", fmt.Errorf("reading source: %w", err)
	}
	return false, "", nil
}
