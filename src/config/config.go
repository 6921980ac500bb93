package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sofmeright/nugetfreight/src/behaviour"
	"gopkg.in/yaml.v3"
)

// Default config files, tried in order when no path is given.
var defaultConfigFiles = []string{
	".nugetfreight.yml",
	".nugetfreight.yaml",
	".nugetfreight.toml",
}

// Config is the top-level nugetfreight configuration.
type Config struct {
	// Solution is the solution compiled by msbuild and restored by nuget.
	Solution string `yaml:"solution" toml:"solution"`

	// Nuspec is the package spec passed to nuget pack.
	Nuspec string `yaml:"nuspec" toml:"nuspec"`

	// BuildDir is removed by clean.
	BuildDir string `yaml:"build_dir" toml:"build_dir"`

	// OutputDir receives packed packages. Created on demand.
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// PackagePlatform is the only build-matrix platform that packs and publishes.
	PackagePlatform string `yaml:"package_platform" toml:"package_platform"`

	MSBuild  MSBuildConfig  `yaml:"msbuild" toml:"msbuild"`
	NuGet    NuGetConfig    `yaml:"nuget" toml:"nuget"`
	Registry RegistryConfig `yaml:"registry" toml:"registry"`
	Publish  PublishConfig  `yaml:"publish" toml:"publish"`

	// Policies maps names to branch regexes for publish.branches.
	Policies map[string]string `yaml:"policies" toml:"policies"`
}

// Load reads configuration from a YAML or TOML file, picked by extension.
// If path is empty, the default files are tried in order and defaults are
// returned when none exist. An explicit path must exist.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}
	for _, name := range defaultConfigFiles {
		cfg, err := loadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Defaults(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Defaults returns the taglib-sharp build behaviour.
func Defaults() *Config {
	l := behaviour.DefaultLayout()
	return &Config{
		Solution:        l.Solution,
		Nuspec:          filepath.ToSlash(l.Nuspec),
		BuildDir:        filepath.ToSlash(l.BuildDir),
		OutputDir:       filepath.ToSlash(l.OutputDir),
		PackagePlatform: l.PackagePlatform.String(),
		MSBuild:         DefaultMSBuildConfig(),
		NuGet:           DefaultNuGetConfig(),
		Registry:        DefaultRegistryConfig(),
		Publish:         DefaultPublishConfig(),
		Policies:        map[string]string{},
	}
}

// Layout converts the configuration into the descriptor's fixed layout.
func (c *Config) Layout() behaviour.Layout {
	return behaviour.Layout{
		BuildDir:        filepath.FromSlash(c.BuildDir),
		OutputDir:       filepath.FromSlash(c.OutputDir),
		Solution:        filepath.FromSlash(c.Solution),
		Nuspec:          filepath.FromSlash(c.Nuspec),
		PackBase:        filepath.FromSlash(c.NuGet.BasePath),
		Target:          c.MSBuild.Target,
		MSBuildPlatform: c.MSBuild.Platform,
		PackageGlob:     c.NuGet.PackageGlob,
		PackagePlatform: behaviour.ParsePlatform(c.PackagePlatform),
		EndpointEnv:     c.Registry.EndpointEnv,
		APIKeyEnv:       c.Registry.APIKeyEnv,
	}
}
