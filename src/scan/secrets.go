// Package scan checks packages for leaked secrets before they are published.
package scan

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// ErrSecretsFound is returned by callers that refuse to publish a package
// with findings.
var ErrSecretsFound = errors.New("secrets found in package")

// maxEntrySize caps how much of a single package entry is scanned.
const maxEntrySize = 8 << 20

// binaryExts are package entries never scanned.
var binaryExts = map[string]bool{
	".dll": true, ".exe": true, ".pdb": true, ".so": true, ".dylib": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".p7s": true, ".snk": true, ".zip": true, ".nupkg": true,
}

// Finding is a single secret detected in a package entry.
type Finding struct {
	Package string
	Entry   string
	Line    int
	RuleID  string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s!%s:%d %s (%s)", path.Base(f.Package), f.Entry, f.Line, f.Message, f.RuleID)
}

// Scanner runs gitleaks' default rules over package contents.
type Scanner struct {
	detector *detect.Detector
}

// NewScanner creates a Scanner with the default gitleaks rule set.
func NewScanner() (*Scanner, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("loading secret rules: %w", err)
	}
	return &Scanner{detector: d}, nil
}

// ScanBytes scans a single blob, attributing findings to entry.
func (s *Scanner) ScanBytes(pkg, entry string, data []byte) []Finding {
	hits := s.detector.DetectBytes(data)
	if len(hits) == 0 {
		return nil
	}

	findings := make([]Finding, 0, len(hits))
	for _, h := range hits {
		findings = append(findings, Finding{
			Package: pkg,
			Entry:   entry,
			Line:    h.StartLine + 1, // gitleaks is 0-indexed
			RuleID:  h.RuleID,
			Message: h.Description,
		})
	}
	return findings
}

// ScanPackage opens a .nupkg (a zip archive) and scans its text entries.
func (s *Scanner) ScanPackage(pkgPath string) ([]Finding, error) {
	zr, err := zip.OpenReader(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("opening package %s: %w", pkgPath, err)
	}
	defer zr.Close()

	var findings []Finding
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || binaryExts[strings.ToLower(path.Ext(f.Name))] {
			continue
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s in %s: %w", f.Name, pkgPath, err)
		}
		if bytes.IndexByte(data, 0) != -1 {
			continue // binary
		}
		findings = append(findings, s.ScanBytes(pkgPath, f.Name, data)...)
	}
	return findings, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxEntrySize))
}
