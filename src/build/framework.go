package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sofmeright/nugetfreight/src/config"
	"github.com/sofmeright/nugetfreight/src/scan"
	"github.com/sofmeright/nugetfreight/src/toolchain"
	"golang.org/x/sync/errgroup"
)

// APIVersion is the orchestrator version reported to build descriptors.
const APIVersion = "42.0.0"

// ErrNoPackages is returned when publish finds nothing to push.
var ErrNoPackages = errors.New("no packages to publish")

// PackageScanner inspects a package before it is pushed.
type PackageScanner interface {
	ScanPackage(path string) ([]scan.Finding, error)
}

// Framework is the orchestrator that runs the .NET toolchain on behalf of a
// build descriptor.
type Framework struct {
	Compiler *toolchain.MSBuild
	Packager *toolchain.NuGet

	// OutputDir is where nuget pack writes packages.
	OutputDir string
	// PackVersion overrides the nuspec version when set.
	PackVersion string
	// Restore runs nuget restore on the registered solution before the first compile.
	Restore bool
	// Parallel bounds concurrent pushes. Values below 1 mean 1.
	Parallel int
	// Scanner, if set, must report no findings for a package to be pushed.
	Scanner PackageScanner
	// DryRun pushes the raw pattern when nothing matches instead of failing.
	DryRun bool

	// Branch and Branches gate publishing; empty Branches publishes from anywhere.
	Branch   string
	Branches []string
	Policies map[string]string

	mu       sync.Mutex
	solution string
	restored bool
}

// NewFramework creates a Framework from configuration, running tools through runner.
func NewFramework(cfg *config.Config, runner toolchain.Runner) *Framework {
	return &Framework{
		Compiler:  &toolchain.MSBuild{Tool: cfg.MSBuild.Tool, Runner: runner},
		Packager:  &toolchain.NuGet{Tool: cfg.NuGet.Tool, Runner: runner},
		OutputDir: filepath.FromSlash(cfg.OutputDir),
		Restore:   cfg.NuGet.RestoreEnabled(),
		Parallel:  cfg.Publish.Parallel,
		Branches:  cfg.Publish.Branches,
		Policies:  cfg.Policies,
	}
}

// Version implements behaviour.Orchestrator.
func (f *Framework) Version() string { return APIVersion }

// SetNuGetSln registers the solution restored before compiling.
func (f *Framework) SetNuGetSln(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.solution = path
	f.restored = false
}

// MSBuild restores the registered solution once, then compiles solution.
func (f *Framework) MSBuild(ctx context.Context, solution, target, configuration, platform string) error {
	if err := f.restore(ctx); err != nil {
		return err
	}
	return f.Compiler.Build(ctx, solution, target, configuration, platform)
}

func (f *Framework) restore(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Restore || f.solution == "" || f.restored {
		return nil
	}
	if err := f.Packager.Restore(ctx, f.solution); err != nil {
		return fmt.Errorf("restoring %s: %w", f.solution, err)
	}
	f.restored = true
	return nil
}

// PackNuGet packs specPath into OutputDir.
func (f *Framework) PackNuGet(ctx context.Context, specPath, basePath string) error {
	return f.Packager.Pack(ctx, specPath, toolchain.PackOptions{
		BasePath:        basePath,
		OutputDirectory: f.OutputDir,
		Version:         f.PackVersion,
	})
}

// PublishNuGet pushes every package matching pattern. Packages are scanned
// first when a Scanner is set; any finding aborts the whole publish before
// anything is pushed.
func (f *Framework) PublishNuGet(ctx context.Context, pattern, apiKey, endpoint string) error {
	if !config.MatchPatternsWithPolicy(f.Branches, f.Branch, f.Policies) {
		slog.Info("publish skipped: branch not allowed", "branch", f.Branch)
		return nil
	}

	pkgs, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("matching %s: %w", pattern, err)
	}
	sort.Strings(pkgs)
	if len(pkgs) == 0 {
		if !f.DryRun {
			return fmt.Errorf("%w: nothing matches %s", ErrNoPackages, pattern)
		}
		pkgs = []string{pattern}
	}

	if f.Scanner != nil && !f.DryRun {
		if err := f.scan(pkgs); err != nil {
			return err
		}
	}

	limit := f.Parallel
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, pkg := range pkgs {
		g.Go(func() error {
			slog.Debug("push", "package", pkg)
			if err := f.Packager.Push(gctx, pkg, apiKey, endpoint); err != nil {
				return fmt.Errorf("pushing %s: %w", filepath.Base(pkg), err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (f *Framework) scan(pkgs []string) error {
	var all []scan.Finding
	for _, pkg := range pkgs {
		findings, err := f.Scanner.ScanPackage(pkg)
		if err != nil {
			return err
		}
		all = append(all, findings...)
	}
	if len(all) == 0 {
		return nil
	}

	lines := make([]string, len(all))
	for i, fd := range all {
		lines[i] = fd.String()
	}
	return fmt.Errorf("%w:\n  %s", scan.ErrSecretsFound, strings.Join(lines, "\n  "))
}
