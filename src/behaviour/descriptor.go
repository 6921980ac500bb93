package behaviour

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Layout holds the fixed paths and identifiers of the build.
type Layout struct {
	BuildDir        string   // removed by Clean
	OutputDir       string   // created by Build, holds produced packages
	Solution        string   // solution passed to MSBuild and registered for restore
	Nuspec          string   // package spec passed to the packer
	PackBase        string   // base path for pack
	Target          string   // MSBuild target
	MSBuildPlatform string   // MSBuild /p:Platform value
	PackageGlob     string   // package file pattern under OutputDir
	PackagePlatform Platform // the only platform that builds and publishes
	EndpointEnv     string   // env var holding the feed URL
	APIKeyEnv       string   // env var holding the feed API key
}

// DefaultLayout returns the taglib-sharp layout.
func DefaultLayout() Layout {
	return Layout{
		BuildDir:        "build",
		OutputDir:       filepath.Join("build", "packages"),
		Solution:        "taglib-sharp.sln",
		Nuspec:          filepath.Join("src", "taglib-sharp.nuspec"),
		PackBase:        ".",
		Target:          "Build",
		MSBuildPlatform: "Any CPU",
		PackageGlob:     "*.nupkg",
		PackagePlatform: WindowsX86,
		EndpointEnv:     "NUGET_SERVER",
		APIKeyEnv:       "NUGET_API_KEY",
	}
}

// Options is what the orchestrator supplies for one build invocation.
type Options struct {
	Env           map[string]string
	Platform      Platform
	Configuration string
	Layout        Layout
}

// Descriptor is the build behaviour for one build invocation. It is created
// once, driven through Setup, Clean, Build and Publish, then discarded.
// It is not safe for concurrent use.
type Descriptor struct {
	orch   Orchestrator
	env    map[string]string
	layout Layout

	outputDirectory    string
	buildDirectory     string
	solutionFile       string
	registryEndpoint   string
	registryAPIKey     string
	targetPlatform     Platform
	buildConfiguration string
}

// New creates a Descriptor bound to orch. It fails if orch is nil or older
// than MinOrchestratorVersion.
func New(orch Orchestrator, opts Options) (*Descriptor, error) {
	if orch == nil {
		return nil, ErrNoOrchestrator
	}
	if err := RequireVersion(orch, MinOrchestratorVersion); err != nil {
		return nil, err
	}

	return &Descriptor{
		orch:               orch,
		env:                opts.Env,
		layout:             opts.Layout,
		outputDirectory:    opts.Layout.OutputDir,
		buildDirectory:     opts.Layout.BuildDir,
		solutionFile:       opts.Layout.Solution,
		targetPlatform:     opts.Platform,
		buildConfiguration: opts.Configuration,
	}, nil
}

// Setup captures the registry endpoint and API key from the environment and
// registers the solution with the orchestrator. Missing variables leave the
// fields empty.
func (d *Descriptor) Setup() {
	d.registryEndpoint = d.env[d.layout.EndpointEnv]
	d.registryAPIKey = d.env[d.layout.APIKeyEnv]
	d.orch.SetNuGetSln(d.solutionFile)

	slog.Debug("setup",
		"solution", d.solutionFile,
		"platform", d.targetPlatform.String(),
		"configuration", d.buildConfiguration,
		"endpoint_set", d.registryEndpoint != "",
		"api_key_set", d.registryAPIKey != "",
	)
}

// Clean removes the build directory if it exists. A missing path or a
// non-directory is left alone; any other filesystem error is returned.
func (d *Descriptor) Clean(ctx context.Context) error {
	info, err := os.Stat(d.buildDirectory)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		slog.Debug("clean: nothing to remove", "dir", d.buildDirectory)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: inspecting %s: %w", ErrClean, d.buildDirectory, err)
	}
	if err := os.RemoveAll(d.buildDirectory); err != nil {
		return fmt.Errorf("%w: removing %s: %w", ErrClean, d.buildDirectory, err)
	}
	return nil
}

// Build compiles the solution, ensures the output directory exists and packs
// the package. No-op unless running on the packaging platform.
func (d *Descriptor) Build(ctx context.Context) error {
	if !d.Packages() {
		slog.Debug("build: skipped", "platform", d.targetPlatform.String())
		return nil
	}

	l := d.layout
	if err := d.orch.MSBuild(ctx, d.solutionFile, l.Target, d.buildConfiguration, l.MSBuildPlatform); err != nil {
		return fmt.Errorf("%w: msbuild %s: %w", ErrBuild, d.solutionFile, err)
	}
	if err := os.MkdirAll(d.outputDirectory, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrBuild, d.outputDirectory, err)
	}
	if err := d.orch.PackNuGet(ctx, l.Nuspec, l.PackBase); err != nil {
		return fmt.Errorf("%w: pack %s: %w", ErrBuild, l.Nuspec, err)
	}
	return nil
}

// Publish pushes every produced package using the credentials captured in
// Setup. No-op unless running on the packaging platform.
func (d *Descriptor) Publish(ctx context.Context) error {
	if !d.Packages() {
		slog.Debug("publish: skipped", "platform", d.targetPlatform.String())
		return nil
	}

	pattern := d.PackagePattern()
	if err := d.orch.PublishNuGet(ctx, pattern, d.registryAPIKey, d.registryEndpoint); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublish, pattern, err)
	}
	return nil
}

// Packages reports whether this invocation builds and publishes packages.
func (d *Descriptor) Packages() bool {
	switch d.targetPlatform {
	case d.layout.PackagePlatform:
		return !d.targetPlatform.IsZero()
	default:
		return false
	}
}

// PackagePattern is the glob passed to the publish step.
func (d *Descriptor) PackagePattern() string {
	return filepath.Join(d.outputDirectory, d.layout.PackageGlob)
}

// Platform returns the platform of this invocation.
func (d *Descriptor) Platform() Platform { return d.targetPlatform }

// Configuration returns the build configuration of this invocation.
func (d *Descriptor) Configuration() string { return d.buildConfiguration }

// OutputDirectory returns the package output directory.
func (d *Descriptor) OutputDirectory() string { return d.outputDirectory }

// BuildDirectory returns the removable build directory.
func (d *Descriptor) BuildDirectory() string { return d.buildDirectory }
