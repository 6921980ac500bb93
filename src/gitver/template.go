package gitver

import (
	"strconv"
	"strings"
	"time"
)

// ExpandVersion expands template variables in a package version string.
//
// Supported templates:
//
//	{version}        "1.2.3", "1.2.3-alpha.1", "0.0.0-dev+abc1234"
//	{base}           "1.2.3"
//	{major} {minor} {patch}
//	{prerelease}     "alpha.1" or "" for stable
//	{branch}         branch name with "/" and "_" folded to "-"
//	{sha}            "abc1234" (default 7)
//	{sha:N}          first N chars of the commit SHA
//	{env:NAME}       value of NAME in env, "" when unset
//	{date}           "20260224" (UTC)
//	{date:LAYOUT}    custom Go time layout
//	{timestamp}      unix epoch seconds
//
// Literals pass through as-is, so "2.3.0" expands to itself:
//
//	"{base}-ci.{env:CI_PIPELINE_ID}"
//	"{base}-{branch}.{date:20060102150405}"
func ExpandVersion(tmpl string, v *VersionInfo, env map[string]string, now time.Time) string {
	if v == nil || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	now = now.UTC()

	s := tmpl
	// Parameterized tokens first; their arguments may contain anything.
	s = replaceParam(s, "env", func(name string) string { return env[name] })
	s = replaceParam(s, "sha", func(arg string) string {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			n = 7
		}
		return truncate(v.SHA, n)
	})
	s = replaceParam(s, "date", now.Format)

	s = strings.NewReplacer(
		"{version}", v.Version,
		"{base}", v.Base,
		"{major}", v.Major,
		"{minor}", v.Minor,
		"{patch}", v.Patch,
		"{prerelease}", v.Prerelease,
		"{branch}", sanitizeLabel(v.Branch),
		"{sha}", truncate(v.SHA, 7),
		"{timestamp}", strconv.FormatInt(now.Unix(), 10),
		"{date}", now.Format("20060102"),
	).Replace(s)
	return s
}

// replaceParam replaces every {name:ARG} in s with fn(ARG). An unterminated
// token is left as-is.
func replaceParam(s, name string, fn func(arg string) string) string {
	open := "{" + name + ":"
	var b strings.Builder
	for {
		start := strings.Index(s, open)
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			break
		}
		end += start
		b.WriteString(s[:start])
		b.WriteString(fn(s[start+len(open) : end]))
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// sanitizeLabel makes s usable as a semver prerelease identifier.
func sanitizeLabel(s string) string {
	return strings.NewReplacer("/", "-", "_", "-", " ", "-").Replace(s)
}
