package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sofmeright/nugetfreight/src/behaviour"
)

// Validate checks structural invariants of a loaded Config.
// Returns warnings (soft issues) and a hard error if the config is invalid.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	// ── Paths ─────────────────────────────────────────────────────────────

	required := []struct{ name, value string }{
		{"solution", cfg.Solution},
		{"nuspec", cfg.Nuspec},
		{"build_dir", cfg.BuildDir},
		{"output_dir", cfg.OutputDir},
		{"nuget.package_glob", cfg.NuGet.PackageGlob},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Sprintf("%s: must not be empty", r.name))
		}
	}

	if cfg.BuildDir != "" && filepath.IsAbs(cfg.BuildDir) {
		warnings = append(warnings, fmt.Sprintf("build_dir: %q is absolute; clean will remove it recursively", cfg.BuildDir))
	}
	if cfg.NuGet.PackageGlob != "" {
		if _, err := filepath.Match(cfg.NuGet.PackageGlob, ""); err != nil {
			errs = append(errs, fmt.Sprintf("nuget.package_glob: %v", err))
		}
	}

	// ── Platform ──────────────────────────────────────────────────────────

	if cfg.PackagePlatform == "" {
		errs = append(errs, "package_platform: must not be empty")
	} else if !behaviour.ParsePlatform(cfg.PackagePlatform).Known() {
		warnings = append(warnings, fmt.Sprintf("package_platform: %q is not a recognised platform", cfg.PackagePlatform))
	}

	// ── NuGet ─────────────────────────────────────────────────────────────

	if v := cfg.NuGet.Version; v != "" && v != "git" && !strings.Contains(v, "{") {
		if _, err := semver.NewVersion(v); err != nil {
			errs = append(errs, fmt.Sprintf("nuget.version: %q is not \"git\", a template, or a semantic version", v))
		}
	}

	// ── Registry ──────────────────────────────────────────────────────────

	if cfg.Registry.EndpointEnv == "" {
		errs = append(errs, "registry.endpoint_env: must not be empty")
	}
	if cfg.Registry.APIKeyEnv == "" {
		errs = append(errs, "registry.api_key_env: must not be empty")
	}

	// ── Publish ───────────────────────────────────────────────────────────

	if cfg.Publish.Parallel < 1 {
		errs = append(errs, fmt.Sprintf("publish.parallel: must be at least 1, got %d", cfg.Publish.Parallel))
	}

	for name, re := range cfg.Policies {
		if !isIdentifier(name) {
			errs = append(errs, fmt.Sprintf("policies: key %q is not a valid identifier (must match [a-zA-Z][a-zA-Z0-9_.\\-]*)", name))
		}
		if _, err := regexp.Compile(re); err != nil {
			errs = append(errs, fmt.Sprintf("policies.%s: invalid regex: %v", name, err))
		}
	}

	_, resolveWarnings := ResolvePatterns(cfg.Publish.Branches, cfg.Policies)
	for _, w := range resolveWarnings {
		warnings = append(warnings, "publish.branches: "+w)
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return warnings, nil
}
