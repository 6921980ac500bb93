package behaviour

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// MinOrchestratorVersion is the oldest orchestrator the descriptor runs on.
const MinOrchestratorVersion = "42"

// Orchestrator is the CI framework a Descriptor delegates to. The descriptor
// only decides whether and in what order these are called.
type Orchestrator interface {
	// Version returns the framework version, e.g. "42" or "42.1.0".
	Version() string

	// SetNuGetSln registers the solution used for package restore.
	SetNuGetSln(path string)

	// MSBuild compiles solution with the given target, configuration and platform.
	MSBuild(ctx context.Context, solution, target, configuration, platform string) error

	// PackNuGet packs the package described by specPath relative to basePath.
	PackNuGet(ctx context.Context, specPath, basePath string) error

	// PublishNuGet pushes every package matching pattern to endpoint.
	PublishNuGet(ctx context.Context, pattern, apiKey, endpoint string) error
}

// RequireVersion fails unless the orchestrator reports at least minVersion.
func RequireVersion(orch Orchestrator, minVersion string) error {
	c, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		return fmt.Errorf("minimum orchestrator version %q: %w", minVersion, err)
	}
	raw := orch.Version()
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: unparseable version %q", ErrIncompatibleOrchestrator, raw)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: have %s, need >= %s", ErrIncompatibleOrchestrator, v, minVersion)
	}
	return nil
}
