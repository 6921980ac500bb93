package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/sofmeright/nugetfreight/src/behaviour"
	"github.com/sofmeright/nugetfreight/src/build"
	"github.com/sofmeright/nugetfreight/src/config"
	"github.com/sofmeright/nugetfreight/src/gitver"
	"github.com/sofmeright/nugetfreight/src/output"
	"github.com/sofmeright/nugetfreight/src/scan"
	"github.com/sofmeright/nugetfreight/src/toolchain"
	"github.com/spf13/cobra"
)

// phaseCommand returns a command that runs phases. Setup always runs first.
func phaseCommand(use, short string, phases ...build.Phase) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), phases)
		},
	}
}

func runLifecycle(ctx context.Context, w, errw io.Writer, phases []build.Phase) error {
	color := output.UseColor()

	env, err := config.LoadEnv(envFiles...)
	if err != nil {
		return err
	}

	runner := toolchain.NewExecRunner(verbose, dryRun)
	runner.Stdout, runner.Stderr = w, errw

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	vi, verr := gitver.DetectVersion(root, env)
	if verr != nil {
		slog.Debug("version detection", "error", verr)
	}

	fw, err := newFramework(cfg, runner, vi)
	if err != nil {
		return err
	}

	platform := behaviour.ParsePlatform(platformName)
	if platform.IsZero() {
		slog.Warn("no platform given; build and publish will do nothing", "hint", "set --platform or $PLATFORM")
	} else if !platform.Known() {
		slog.Warn("unrecognised platform; build and publish will do nothing", "platform", platform.String())
	}

	d, err := behaviour.New(fw, behaviour.Options{
		Env:           env,
		Platform:      platform,
		Configuration: configuration,
		Layout:        cfg.Layout(),
	})
	if err != nil {
		return err
	}

	// The pack version only matters when this invocation packs.
	if d.Packages() && slices.Contains(phases, build.PhaseBuild) {
		if fw.PackVersion, err = packVersion(cfg.NuGet.Version, vi, verr, env); err != nil {
			return err
		}
	}

	output.Context(w, contextRows(d, fw, vi), color)

	output.SectionStartCollapsed(w, "nugetfreight_lifecycle", "Lifecycle")
	result, runErr := build.Run(ctx, d, phases, nil)
	output.SectionEnd(w, "nugetfreight_lifecycle")

	output.Summary(w, result, color)

	if reportPath != "" {
		if err := output.WriteJUnit(reportPath, platform.String(), result); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}

// newFramework wires the orchestrator from configuration. vi may be nil
// outside a git checkout.
func newFramework(cfg *config.Config, runner toolchain.Runner, vi *gitver.VersionInfo) (*build.Framework, error) {
	fw := build.NewFramework(cfg, runner)
	fw.DryRun = dryRun
	if vi != nil {
		fw.Branch = vi.Branch
	}

	if cfg.Publish.ScanSecrets {
		s, err := scan.NewScanner()
		if err != nil {
			return nil, fmt.Errorf("creating secret scanner: %w", err)
		}
		fw.Scanner = s
	}
	return fw, nil
}

// packVersion resolves nuget.version. "git" and templates need git metadata;
// anything else is passed through.
func packVersion(configured string, vi *gitver.VersionInfo, verr error, env map[string]string) (string, error) {
	v := configured
	if v == "git" {
		v = "{version}"
	}
	if !strings.Contains(v, "{") {
		return v, nil
	}
	if vi == nil {
		return "", fmt.Errorf("nuget.version %q needs git metadata: %w", configured, verr)
	}
	v = gitver.ExpandVersion(v, vi, env, time.Now())
	if _, err := semver.NewVersion(v); err != nil {
		return "", fmt.Errorf("nuget.version %q expands to %q: %w", configured, v, err)
	}
	return v, nil
}

func contextRows(d *behaviour.Descriptor, fw *build.Framework, vi *gitver.VersionInfo) []output.KV {
	rows := []output.KV{
		{Key: "platform", Value: d.Platform().String()},
		{Key: "configuration", Value: d.Configuration()},
		{Key: "packages", Value: strconv.FormatBool(d.Packages())},
		{Key: "output", Value: d.OutputDirectory()},
	}
	if vi != nil {
		rows = append(rows,
			output.KV{Key: "version", Value: vi.Version},
			output.KV{Key: "branch", Value: vi.Branch},
		)
	}
	if fw.PackVersion != "" {
		rows = append(rows, output.KV{Key: "pack version", Value: fw.PackVersion})
	}
	if dryRun {
		rows = append(rows, output.KV{Key: "dry run", Value: "true"})
	}
	return rows
}
