// Package output renders build progress for terminals and CI logs.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/sofmeright/nugetfreight/src/build"
)

// KV is a key/value pair for the context section.
type KV struct {
	Key   string
	Value string
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// Context writes the invocation context as a section. Empty values are
// shown dimmed as "-".
func Context(w io.Writer, kv []KV, color bool) {
	sec := NewSection(w, "Context", 0, color)
	for _, p := range kv {
		v := p.Value
		if v == "" {
			v = Dimmed("-", color)
		}
		sec.KV(p.Key, v)
	}
	sec.Close()
}

// PhaseLine writes the row for one finished phase.
func PhaseLine(w io.Writer, pr build.PhaseResult, color bool) {
	detail := pr.Detail
	if pr.Error != nil {
		detail = pr.Error.Error()
	}
	if pr.Status != build.StatusSkipped || pr.Duration > 0 {
		detail = fmt.Sprintf("%-44s %s", detail, Dimmed(formatElapsed(pr.Duration), color))
	}
	SummaryRow(w, string(pr.Phase), pr.Status, detail, color)
}

// Summary writes the closing section for a lifecycle run.
func Summary(w io.Writer, r *build.Result, color bool) {
	sec := NewSection(w, "Summary", r.Duration, color)
	for _, pr := range r.Phases {
		PhaseLine(w, pr, color)
	}
	sec.Separator()
	SummaryTotal(w, r.Duration, r.Status(), color)
	sec.Close()
}
