package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sofmeright/nugetfreight/src/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	verbose       bool
	dryRun        bool
	platformName  string
	configuration string
	envFiles      []string
	reportPath    string
	cfg           *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nugetfreight",
	Short: "Build, pack and publish NuGet packages",
	Long: `nugetfreight drives a .NET solution through setup, clean, build and publish.

Only the packaging platform (Windows-x86 by default) compiles, packs and
pushes; every other platform of a build matrix runs the same steps as no-ops.
Feed credentials come from NUGET_SERVER and NUGET_API_KEY.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbose)

		// Skip config loading for commands that don't need it.
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		warnings, err := config.Validate(cfg)
		for _, w := range warnings {
			slog.Warn("config", "warning", w)
		}
		return err
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: .nugetfreight.yml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&dryRun, "dry-run", false, "print tool invocations without running them")
	flags.StringVar(&platformName, "platform", os.Getenv("PLATFORM"), "build matrix platform (default: $PLATFORM)")
	flags.StringVar(&configuration, "configuration", envOr("CONFIGURATION", "Release"), "build configuration (default: $CONFIGURATION or Release)")
	flags.StringSliceVar(&envFiles, "env-file", nil, "dotenv files layered over the process environment")
	flags.StringVar(&reportPath, "report", "", "write a JUnit XML report to this path")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nugetfreight: %v\n", err)
		return err
	}
	return nil
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
