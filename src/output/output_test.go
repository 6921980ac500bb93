package output

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sofmeright/nugetfreight/src/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *build.Result {
	return &build.Result{
		Duration: 1500 * time.Millisecond,
		Phases: []build.PhaseResult{
			{Phase: build.PhaseSetup, Status: build.StatusSuccess},
			{Phase: build.PhaseClean, Status: build.StatusSuccess, Duration: 2 * time.Millisecond},
			{Phase: build.PhaseBuild, Status: build.StatusFailed, Duration: time.Second, Error: errors.New("msbuild exited 1")},
			{Phase: build.PhasePublish, Status: build.StatusSkipped, Detail: "not run after earlier failure"},
		},
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "<1ms"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30.0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatElapsed(tt.d))
	}
}

func TestStatusIconPlain(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon(build.StatusSuccess, false))
	assert.Equal(t, "✗", StatusIcon(build.StatusFailed, false))
	assert.Equal(t, "⊘", StatusIcon(build.StatusSkipped, false))
	assert.Equal(t, "\033[32m✓\033[0m", StatusIcon(build.StatusSuccess, true))
}

func TestSectionFrame(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Build", 0, false)
	sec.KV("platform", "Windows-x86")
	sec.Close()

	lines := strings.Split(strings.TrimPrefix(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "    ── Build ─"))
	assert.Equal(t, "    │ platform       Windows-x86", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "    └─"))
}

func TestContextDimsEmptyValues(t *testing.T) {
	var buf bytes.Buffer
	Context(&buf, []KV{{"platform", "Linux-x64"}, {"version", ""}}, false)
	assert.Contains(t, buf.String(), "platform       Linux-x64")
	assert.Contains(t, buf.String(), "version        -")
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, sampleResult(), false)
	out := buf.String()

	assert.Contains(t, out, "── Summary")
	assert.Contains(t, out, "build       ✗  msbuild exited 1")
	assert.Contains(t, out, "publish     ⊘  not run after earlier failure")
	assert.Contains(t, out, "total")
}

func TestJUnitReport(t *testing.T) {
	doc := JUnitReport("Windows-x86", sampleResult())

	assert.Equal(t, 4, doc.Tests)
	assert.Equal(t, 1, doc.Failures)
	assert.Equal(t, 1, doc.Skipped)
	require.Len(t, doc.Suites, 1)
	assert.Equal(t, "nugetfreight/Windows-x86", doc.Suites[0].Name)

	cases := doc.Suites[0].Cases
	require.Len(t, cases, 4)
	assert.Nil(t, cases[0].Failure)
	require.NotNil(t, cases[2].Failure)
	assert.Equal(t, "msbuild exited 1", cases[2].Failure.Message)
	require.NotNil(t, cases[3].Skipped)
}

func TestWriteJUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "nugetfreight.xml")
	require.NoError(t, WriteJUnit(path, "Windows-x86", sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xml.Header))

	var doc JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, "nugetfreight", doc.Name)
	assert.Equal(t, 1, doc.Failures)

	// Rewriting replaces the previous report.
	require.NoError(t, WriteJUnit(path, "Windows-x86", &build.Result{}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, 0, doc.Tests)
}

func TestGitLabSectionsOnlyInGitLab(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("GITLAB_CI", "")
	SectionStart(&buf, "build", "Build")
	SectionEnd(&buf, "build")
	assert.Empty(t, buf.String())

	t.Setenv("GITLAB_CI", "true")
	SectionStartCollapsed(&buf, "build", "Build")
	SectionEnd(&buf, "build")
	assert.Contains(t, buf.String(), "section_start:")
	assert.Contains(t, buf.String(), ":build[collapsed=true]")
	assert.Contains(t, buf.String(), "section_end:")
}

func TestUseColorRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColor())
}
