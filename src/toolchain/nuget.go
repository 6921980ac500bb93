package toolchain

import "context"

// NuGet invokes the nuget command-line client.
type NuGet struct {
	Tool   string // executable, default "nuget"
	Runner Runner
}

// PackOptions controls nuget pack.
type PackOptions struct {
	BasePath        string
	OutputDirectory string
	Version         string // overrides the nuspec version when set
}

// Restore restores packages for solution.
func (n *NuGet) Restore(ctx context.Context, solution string) error {
	return n.Runner.Run(ctx, Command{
		Name: n.tool(),
		Args: []string{"restore", solution, "-NonInteractive"},
	})
}

// Pack builds a package from spec.
func (n *NuGet) Pack(ctx context.Context, spec string, opts PackOptions) error {
	args := []string{"pack", spec}
	if opts.BasePath != "" {
		args = append(args, "-BasePath", opts.BasePath)
	}
	if opts.OutputDirectory != "" {
		args = append(args, "-OutputDirectory", opts.OutputDirectory)
	}
	if opts.Version != "" {
		args = append(args, "-Version", opts.Version)
	}
	args = append(args, "-NonInteractive")

	return n.Runner.Run(ctx, Command{Name: n.tool(), Args: args})
}

// Push uploads pkg to source. An empty apiKey or source is left out so nuget
// falls back to its own configuration; the push is still attempted.
func (n *NuGet) Push(ctx context.Context, pkg, apiKey, source string) error {
	args := []string{"push", pkg}
	if apiKey != "" {
		args = append(args, "-ApiKey", apiKey)
	}
	if source != "" {
		args = append(args, "-Source", source)
	}
	args = append(args, "-NonInteractive")

	return n.Runner.Run(ctx, Command{Name: n.tool(), Args: args})
}

func (n *NuGet) tool() string {
	if n.Tool == "" {
		return "nuget"
	}
	return n.Tool
}
