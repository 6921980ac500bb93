package cmd

import "github.com/sofmeright/nugetfreight/src/build"

func init() {
	rootCmd.AddCommand(
		phaseCommand("run", "Run setup, clean, build and publish", build.AllPhases()...),
		phaseCommand("clean", "Remove the build directory", build.PhaseClean),
		phaseCommand("build", "Compile the solution and pack the package", build.PhaseBuild),
		phaseCommand("publish", "Push built packages to the feed", build.PhasePublish),
	)
}
