package scan

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackage(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TagLibSharp.2.3.0.nupkg")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestScanPackageClean(t *testing.T) {
	s, err := NewScanner()
	require.NoError(t, err)

	pkg := writePackage(t, map[string][]byte{
		"TagLibSharp.nuspec":           []byte(`<?xml version="1.0"?><package><metadata><id>TagLibSharp</id></metadata></package>`),
		"lib/net45/TagLibSharp.dll":    {0x4d, 0x5a, 0x00, 0x01},
		"lib/net45/TagLibSharp.xml":    []byte("<doc><summary>Reads tags.</summary></doc>"),
		"[Content_Types].xml":          []byte(`<Types></Types>`),
		"package/services/metadata/x/": nil,
	})

	findings, err := s.ScanPackage(pkg)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestScanPackageNotAZip(t *testing.T) {
	s, err := NewScanner()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "broken.nupkg")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err = s.ScanPackage(path)
	require.Error(t, err)
}

func TestFindingString(t *testing.T) {
	f := Finding{Package: "/x/build/packages/A.1.0.0.nupkg", Entry: "content/app.config", Line: 3, RuleID: "generic-api-key", Message: "Generic API Key"}
	assert.Equal(t, "A.1.0.0.nupkg!content/app.config:3 Generic API Key (generic-api-key)", f.String())
}
