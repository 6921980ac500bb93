package build

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Phase is a lifecycle hook.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseClean   Phase = "clean"
	PhaseBuild   Phase = "build"
	PhasePublish Phase = "publish"
)

// order is the fixed execution order. There is no branching back.
var order = []Phase{PhaseSetup, PhaseClean, PhaseBuild, PhasePublish}

// AllPhases returns every phase in execution order.
func AllPhases() []Phase {
	out := make([]Phase, len(order))
	copy(out, order)
	return out
}

// ParsePhase maps a phase name to a Phase.
func ParsePhase(s string) (Phase, error) {
	for _, p := range order {
		if string(p) == strings.ToLower(strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown phase %q (valid: setup, clean, build, publish)", s)
}

// Lifecycle is the set of hooks a build descriptor exposes.
type Lifecycle interface {
	Setup()
	Clean(ctx context.Context) error
	Build(ctx context.Context) error
	Publish(ctx context.Context) error
}

// Run drives lc through the requested phases in canonical order. Setup always
// runs first. The first failing phase stops the run; the phases after it are
// recorded as skipped. observe, if non-nil, is called after every phase.
func Run(ctx context.Context, lc Lifecycle, phases []Phase, observe func(PhaseResult)) (*Result, error) {
	start := time.Now()
	result := &Result{}

	want := map[Phase]bool{PhaseSetup: true}
	for _, p := range phases {
		want[p] = true
	}

	var failure error
	for _, p := range order {
		if !want[p] {
			continue
		}

		var pr PhaseResult
		if failure != nil {
			pr = PhaseResult{Phase: p, Status: StatusSkipped, Detail: "not run after earlier failure"}
		} else {
			pr = runPhase(ctx, lc, p)
			if pr.Error != nil {
				failure = fmt.Errorf("%s: %w", p, pr.Error)
			}
		}

		result.Phases = append(result.Phases, pr)
		if observe != nil {
			observe(pr)
		}
	}

	result.Duration = time.Since(start)
	return result, failure
}

func runPhase(ctx context.Context, lc Lifecycle, p Phase) PhaseResult {
	start := time.Now()
	pr := PhaseResult{Phase: p, Status: StatusSuccess}

	if (p == PhaseBuild || p == PhasePublish) && !packages(lc) {
		pr.Status = StatusSkipped
		pr.Detail = "not the packaging platform"
	}

	slog.Debug("phase", "name", string(p))

	var err error
	switch p {
	case PhaseSetup:
		lc.Setup()
	case PhaseClean:
		err = lc.Clean(ctx)
	case PhaseBuild:
		err = lc.Build(ctx)
	case PhasePublish:
		err = lc.Publish(ctx)
	}

	pr.Duration = time.Since(start)
	if err != nil {
		pr.Status = StatusFailed
		pr.Error = err
	}
	return pr
}

// packages reports whether lc's build and publish hooks do any work.
// Descriptors without a platform gate always do.
func packages(lc Lifecycle) bool {
	if p, ok := lc.(interface{ Packages() bool }); ok {
		return p.Packages()
	}
	return true
}
