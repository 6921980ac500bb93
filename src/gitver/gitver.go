// Package gitver provides git-based version detection. The nearest semver tag
// reachable from HEAD becomes the package version; builds that are not exactly
// on a tag get a dev suffix so every pushed package version is unique.
package gitver

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// VersionInfo holds resolved version metadata from git.
type VersionInfo struct {
	Version      string // full version: "1.2.3", "1.2.3-alpha.1", "0.0.0-dev+abc1234"
	Base         string // semver base without prerelease: "1.2.3"
	Major        string
	Minor        string
	Patch        string
	Prerelease   string // "alpha.1", "beta.2", "rc.1", or "" for stable
	Tag          string // the tag the version came from, "" if none
	SHA          string // full commit hash
	Branch       string
	IsRelease    bool // true if HEAD is exactly at a tag
	IsPrerelease bool // true if tag has a prerelease suffix
}

// DetectVersion resolves version info from the repository containing rootDir.
// env supplies the CI branch variables used on detached HEAD.
func DetectVersion(rootDir string, env map[string]string) (*VersionInfo, error) {
	repo, err := git.PlainOpenWithOptions(rootDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	v := &VersionInfo{
		SHA:    head.Hash().String(),
		Branch: resolveBranch(head, env),
	}

	tags, err := semverTags(repo)
	if err != nil {
		return nil, err
	}

	tagged, err := nearestTag(repo, head.Hash(), tags)
	if err != nil {
		return nil, err
	}
	if tagged == nil {
		v.Version = fmt.Sprintf("0.0.0-dev+%s", truncate(v.SHA, 7))
		v.Base = "0.0.0"
		v.Major = "0"
		v.Minor = "0"
		v.Patch = "0"
		return v, nil
	}

	v.Tag = tagged.name
	v.Major = fmt.Sprint(tagged.version.Major())
	v.Minor = fmt.Sprint(tagged.version.Minor())
	v.Patch = fmt.Sprint(tagged.version.Patch())
	v.Base = fmt.Sprintf("%s.%s.%s", v.Major, v.Minor, v.Patch)
	v.Prerelease = tagged.version.Prerelease()
	v.IsPrerelease = v.Prerelease != ""
	v.IsRelease = tagged.commit == head.Hash()

	v.Version = v.Base
	if v.IsPrerelease {
		v.Version = fmt.Sprintf("%s-%s", v.Base, v.Prerelease)
	}
	if !v.IsRelease {
		v.Version = fmt.Sprintf("%s-dev+%s", v.Version, truncate(v.SHA, 7))
	}
	return v, nil
}

// resolveBranch returns the checked-out branch, falling back to CI env vars
// for detached HEAD checkouts.
func resolveBranch(head *plumbing.Reference, env map[string]string) string {
	if head.Name().IsBranch() {
		return head.Name().Short()
	}
	for _, key := range []string{"CI_COMMIT_BRANCH", "GITHUB_REF_NAME"} {
		if b := env[key]; b != "" {
			return b
		}
	}
	return ""
}

type semverTag struct {
	name    string
	version *semver.Version
	commit  plumbing.Hash
}

// semverTags returns the repository's semver tags grouped by tagged commit.
// Non-semver tags are ignored.
func semverTags(repo *git.Repository) (map[plumbing.Hash][]semverTag, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	byCommit := make(map[plumbing.Hash][]semverTag)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		sv, err := semver.NewVersion(name)
		if err != nil {
			return nil
		}

		commit := ref.Hash()
		// Annotated tags point at a tag object, not the commit.
		if obj, err := repo.TagObject(ref.Hash()); err == nil {
			c, err := obj.Commit()
			if err != nil {
				return nil
			}
			commit = c.Hash
		}

		byCommit[commit] = append(byCommit[commit], semverTag{name: name, version: sv, commit: commit})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	return byCommit, nil
}

// nearestTag walks history from start and returns the highest semver tag on
// the first tagged commit it meets.
func nearestTag(repo *git.Repository, start plumbing.Hash, tags map[plumbing.Hash][]semverTag) (*semverTag, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	commits, err := repo.Log(&git.LogOptions{From: start})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer commits.Close()

	var best *semverTag
	err = commits.ForEach(func(c *object.Commit) error {
		candidates, ok := tags[c.Hash]
		if !ok {
			return nil
		}
		for i := range candidates {
			if best == nil || candidates[i].version.GreaterThan(best.version) {
				best = &candidates[i]
			}
		}
		return storer.ErrStop
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	return best, nil
}
