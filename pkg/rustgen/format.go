package rustgen

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/libninjago/libninja/pkg/ferr"
)

var (
	rustfmtOnce      sync.Once
	rustfmtAvailable bool
)

func haveRustfmt() bool {
	rustfmtOnce.Do(func() {
		_, err := exec.LookPath("rustfmt")
		rustfmtAvailable = err == nil
	})
	return rustfmtAvailable
}

// Format pipes src through the external rustfmt binary, the Go-side
// analogue of the original implementation's in-process prettyplease
// call: this codebase has no Rust AST pretty-printer available, so it
// shells out to the real formatter instead of hand-rolling one.
//
// A rustfmt binary missing from $PATH is an environment issue, not a
// syntax bug in the generated source, so it's checked once and
// downgrades to bestEffortIndent rather than failing generate outright.
// rustfmt rejecting well-formed-looking input once it's actually on
// $PATH is a real FormatterError.
func Format(file, src string) (string, error) {
	if !haveRustfmt() {
		return bestEffortIndent(src), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "rustfmt", "--emit", "stdout", "--edition", "2021")
	cmd.Stdin = bytes.NewBufferString(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ferr.FormatterError{File: file, Snippet: snippet(src), Err: err}
	}
	return stdout.String(), nil
}

// bestEffortIndent re-indents src by brace depth when rustfmt isn't
// available, so generate still produces a buildable (if ungolfed)
// library rather than failing outright over a missing tool.
func bestEffortIndent(src string) string {
	lines := strings.Split(src, "\n")
	var b strings.Builder
	depth := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			b.WriteString("\n")
			continue
		}
		lineDepth := depth
		if strings.HasPrefix(trimmed, "}") {
			lineDepth--
		}
		if lineDepth < 0 {
			lineDepth = 0
		}
		b.WriteString(strings.Repeat("    ", lineDepth))
		b.WriteString(trimmed)
		b.WriteString("\n")
		depth += strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
		if depth < 0 {
			depth = 0
		}
	}
	return b.String()
}

func snippet(src string) string {
	const max = 400
	if len(src) <= max {
		return src
	}
	return src[:max] + "..."
}
