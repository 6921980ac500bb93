package config

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchPatterns evaluates a list of patterns against a value (OR logic).
// Any pattern matching means the value is allowed.
// Empty list = always allowed (no filter).
// Supports ! negation: a negated pattern excludes even if others include.
//
// Evaluation: exclude patterns (!) are checked first. If any exclude matches,
// the value is rejected. Then include patterns are checked; if any matches,
// the value is allowed. If only exclude patterns exist and none matched,
// the value is allowed.
func MatchPatterns(patterns []string, value string) bool {
	if len(patterns) == 0 {
		return true
	}

	var includes []string
	var excludes []string
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, p[1:])
		} else {
			includes = append(includes, p)
		}
	}

	for _, p := range excludes {
		if matchOne(p, value) {
			return false
		}
	}

	if len(includes) == 0 {
		return true
	}

	for _, p := range includes {
		if matchOne(p, value) {
			return true
		}
	}
	return false
}

// matchOne matches a single regex; an invalid regex is compared literally.
func matchOne(pattern, value string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return pattern == value
	}
	return re.MatchString(value)
}

// identifierRe matches valid policy key names: letter-first, alphanumeric + _ . -
var identifierRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.\-]*$`)

// regexMetaChars are characters that indicate a string is an intentional regex, not a typo.
const regexMetaChars = `^$.*+?()[]{}|\`

func isIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

func containsRegexMeta(s string) bool {
	return strings.ContainsAny(s, regexMetaChars)
}

// ResolvePatterns replaces policy names in a pattern list with their regex
// from policyMap. Direct regex patterns pass through unchanged and the
// negation prefix is preserved. Warnings flag identifier-like tokens that are
// not in the map, which are usually typos.
func ResolvePatterns(patterns []string, policyMap map[string]string) (resolved, warnings []string) {
	if len(patterns) == 0 {
		return nil, nil
	}

	resolved = make([]string, 0, len(patterns))
	for _, token := range patterns {
		prefix := ""
		raw := token
		if strings.HasPrefix(raw, "!") {
			prefix = "!"
			raw = raw[1:]
		}

		if isIdentifier(raw) {
			if re, ok := policyMap[raw]; ok {
				resolved = append(resolved, prefix+re)
				continue
			}
			if !containsRegexMeta(raw) {
				warnings = append(warnings, fmt.Sprintf("unknown policy name %q; treating as regex", raw))
			}
		}
		resolved = append(resolved, prefix+raw)
	}
	return resolved, warnings
}

// MatchPatternsWithPolicy resolves policy names and evaluates patterns against a value.
func MatchPatternsWithPolicy(patterns []string, value string, policyMap map[string]string) bool {
	if len(patterns) == 0 {
		return true
	}
	resolved, _ := ResolvePatterns(patterns, policyMap)
	return MatchPatterns(resolved, value)
}
