package config

// RegistryConfig names the environment variables that carry feed credentials.
// Values are read once at setup; unset variables yield empty strings.
type RegistryConfig struct {
	EndpointEnv string `yaml:"endpoint_env" toml:"endpoint_env"`
	APIKeyEnv   string `yaml:"api_key_env" toml:"api_key_env"`
}

// PublishConfig controls package upload.
type PublishConfig struct {
	// Parallel bounds concurrent pushes. 1 pushes packages one at a time.
	Parallel int `yaml:"parallel" toml:"parallel"`

	// ScanSecrets runs the secret scanner over every package before pushing.
	ScanSecrets bool `yaml:"scan_secrets" toml:"scan_secrets"`

	// Branches restricts publishing to matching branches.
	// Uses standard pattern syntax: regex, policy name, or !negated.
	// Empty = publish from any branch. Examples:
	//   ["^main$"]  only main
	//   ["main", "release"]  policy names from policies:
	//   ["!^feature/.*"]  everything except feature branches
	Branches []string `yaml:"branches" toml:"branches"`
}

// DefaultRegistryConfig returns the NUGET_SERVER and NUGET_API_KEY variable names.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		EndpointEnv: "NUGET_SERVER",
		APIKeyEnv:   "NUGET_API_KEY",
	}
}

// DefaultPublishConfig returns serial, unfiltered publishing.
func DefaultPublishConfig() PublishConfig {
	return PublishConfig{
		Parallel: 1,
	}
}
