package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in a fresh working directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("NUGET_SERVER", "https://feed.example/v3/index.json")
	t.Setenv("NUGET_API_KEY", "s3cret")

	cfgFile, reportPath, envFiles, dryRun, verbose = "", "", nil, false, false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunDryRunOnPackagingPlatform(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "--dry-run", "--platform", "Windows-x86", "--configuration", "Release")
	require.NoError(t, err)

	assert.Contains(t, stderr, "exec: nuget restore taglib-sharp.sln -NonInteractive")
	assert.Contains(t, stderr, `exec: msbuild taglib-sharp.sln /t:Build /p:Configuration=Release "/p:Platform=Any CPU"`)
	assert.Contains(t, stderr, "exec: nuget pack "+filepath.Join("src", "taglib-sharp.nuspec"))
	assert.Contains(t, stderr, "exec: nuget push "+filepath.Join("build", "packages", "*.nupkg")+
		" -ApiKey **** -Source https://feed.example/v3/index.json -NonInteractive")
	assert.NotContains(t, stderr, "s3cret")

	assert.Contains(t, stdout, "── Summary")
	assert.DirExists(t, filepath.Join("build", "packages"))
}

func TestRunOtherPlatformIsNoOp(t *testing.T) {
	for _, platform := range []string{"Linux-x64", "Windows-x64", "Plan9-mips", ""} {
		t.Run(platform, func(t *testing.T) {
			stdout, stderr, err := execute(t, "run", "--dry-run", "--platform", platform)
			require.NoError(t, err)
			assert.NotContains(t, stderr, "exec:")
			assert.Contains(t, stdout, "not the packaging platform")
			assert.NoDirExists(t, "build")
		})
	}
}

func TestCleanRemovesBuildDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build", "packages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build", "packages", "old.nupkg"), []byte("x"), 0o644))

	_, _, err := execute(t, "clean", "--platform", "Linux-x64")
	require.NoError(t, err)
	// execute moved into a fresh directory; the seeded one is untouched.
	assert.DirExists(t, filepath.Join(dir, "build"))

	t.Chdir(dir)
	rootCmd.SetArgs([]string{"clean", "--platform", "Linux-x64"})
	require.NoError(t, rootCmd.Execute())
	assert.NoDirExists(t, filepath.Join(dir, "build"))
}

func TestReportWritten(t *testing.T) {
	_, _, err := execute(t, "build", "--dry-run", "--platform", "Windows-x86", "--report", filepath.Join("reports", "junit.xml"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("reports", "junit.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `name="nugetfreight/Windows-x86"`)
	assert.Contains(t, string(data), `<testcase name="build"`)
}

func TestPublishWithoutPackagesFails(t *testing.T) {
	_, _, err := execute(t, "publish", "--platform", "Windows-x86")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no packages to publish")
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "run", "--config", "nope.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestInvalidConfigRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("bad.yml", []byte("publish:\n  parallel: 0\n"), 0o644))
	path, err := filepath.Abs("bad.yml")
	require.NoError(t, err)

	_, _, err = execute(t, "run", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish.parallel")
}

func TestGitPackVersionOnlyResolvedWhenPacking(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nugetfreight.yml")
	require.NoError(t, os.WriteFile(path, []byte("nuget:\n  version: git\n"), 0o644))

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"run elsewhere", []string{"run", "--dry-run", "--platform", "Linux-x64"}, false},
		{"clean elsewhere", []string{"clean", "--platform", "Linux-x64"}, false},
		{"clean on packaging platform", []string{"clean", "--platform", "Windows-x86"}, false},
		{"build on packaging platform", []string{"build", "--dry-run", "--platform", "Windows-x86"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, append(tt.args, "--config", path)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "needs git metadata")
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, stderr, "exec:")
		})
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "nugetfreight dev")
	assert.Contains(t, stdout, "orchestrator api 42.0.0")
}
