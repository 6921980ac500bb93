package config

// MSBuildConfig configures the compile step.
type MSBuildConfig struct {
	Tool     string `yaml:"tool" toml:"tool"`         // executable (default: msbuild)
	Target   string `yaml:"target" toml:"target"`     // /t: value
	Platform string `yaml:"platform" toml:"platform"` // /p:Platform value, independent of the matrix platform
}

// NuGetConfig configures restore, pack and push.
type NuGetConfig struct {
	Tool        string `yaml:"tool" toml:"tool"`                 // executable (default: nuget)
	BasePath    string `yaml:"base_path" toml:"base_path"`       // -BasePath for pack
	PackageGlob string `yaml:"package_glob" toml:"package_glob"` // matched under output_dir on publish

	// Version overrides the nuspec version on pack:
	//   ""            use the nuspec as-is
	//   "git"         the version derived from the nearest semver tag
	//   "2.3.0"       literal version
	//   "{base}-ci.{env:CI_PIPELINE_ID}"  template expanded against git metadata
	Version string `yaml:"version" toml:"version"`

	// Restore runs `nuget restore` on the solution before the first compile.
	Restore *bool `yaml:"restore" toml:"restore"`
}

// RestoreEnabled reports whether restore is on (default true).
func (n NuGetConfig) RestoreEnabled() bool {
	return n.Restore == nil || *n.Restore
}

// DefaultMSBuildConfig returns the Build target on Any CPU.
func DefaultMSBuildConfig() MSBuildConfig {
	return MSBuildConfig{
		Tool:     "msbuild",
		Target:   "Build",
		Platform: "Any CPU",
	}
}

// DefaultNuGetConfig returns nuget defaults packing from the repository root.
func DefaultNuGetConfig() NuGetConfig {
	return NuGetConfig{
		Tool:        "nuget",
		BasePath:    ".",
		PackageGlob: "*.nupkg",
	}
}
