package toolchain

import "context"

// MSBuild invokes the msbuild compiler driver.
type MSBuild struct {
	Tool   string // executable, default "msbuild"
	Runner Runner
}

// Build compiles solution.
func (m *MSBuild) Build(ctx context.Context, solution, target, configuration, platform string) error {
	return m.Runner.Run(ctx, Command{
		Name: m.tool(),
		Args: m.buildArgs(solution, target, configuration, platform),
	})
}

// buildArgs constructs the msbuild argument list.
func (m *MSBuild) buildArgs(solution, target, configuration, platform string) []string {
	args := []string{solution}
	if target != "" {
		args = append(args, "/t:"+target)
	}
	if configuration != "" {
		args = append(args, "/p:Configuration="+configuration)
	}
	if platform != "" {
		args = append(args, "/p:Platform="+platform)
	}
	return args
}

func (m *MSBuild) tool() string {
	if m.Tool == "" {
		return "msbuild"
	}
	return m.Tool
}
