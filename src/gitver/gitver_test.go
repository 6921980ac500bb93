package gitver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) signature() *object.Signature {
	return &object.Signature{
		Name:  "ci",
		Email: "ci@example.invalid",
		When:  time.Date(2024, 1, 1, 0, r.n, 0, 0, time.UTC),
	}
}

func (r *testRepo) commit() plumbing.Hash {
	r.t.Helper()
	r.n++
	name := filepath.Join(r.dir, "file.txt")
	require.NoError(r.t, os.WriteFile(name, []byte{byte('a' + r.n)}, 0o644))

	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	_, err = wt.Add("file.txt")
	require.NoError(r.t, err)

	h, err := wt.Commit("change", &git.CommitOptions{Author: r.signature()})
	require.NoError(r.t, err)
	return h
}

func (r *testRepo) tag(name string, h plumbing.Hash, annotated bool) {
	r.t.Helper()
	var opts *git.CreateTagOptions
	if annotated {
		opts = &git.CreateTagOptions{Tagger: r.signature(), Message: name}
	}
	_, err := r.repo.CreateTag(name, h, opts)
	require.NoError(r.t, err)
}

func TestDetectVersionNoTags(t *testing.T) {
	r := newTestRepo(t)
	h := r.commit()

	v, err := DetectVersion(r.dir, nil)
	require.NoError(t, err)

	assert.Equal(t, h.String(), v.SHA)
	assert.Equal(t, "0.0.0-dev+"+v.SHA[:7], v.Version)
	assert.Equal(t, "0.0.0", v.Base)
	assert.False(t, v.IsRelease)
	assert.Empty(t, v.Tag)
	assert.Equal(t, "master", v.Branch)
}

func TestDetectVersionReleaseTag(t *testing.T) {
	r := newTestRepo(t)
	r.tag("v1.2.3", r.commit(), false)

	v, err := DetectVersion(r.dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", v.Version)
	assert.Equal(t, "v1.2.3", v.Tag)
	assert.Equal(t, "1", v.Major)
	assert.Equal(t, "2", v.Minor)
	assert.Equal(t, "3", v.Patch)
	assert.True(t, v.IsRelease)
	assert.False(t, v.IsPrerelease)
}

func TestDetectVersionAfterTag(t *testing.T) {
	r := newTestRepo(t)
	r.tag("v1.2.3", r.commit(), true)
	r.commit()

	v, err := DetectVersion(r.dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3-dev+"+v.SHA[:7], v.Version)
	assert.Equal(t, "1.2.3", v.Base)
	assert.False(t, v.IsRelease)
}

func TestDetectVersionAnnotatedPrerelease(t *testing.T) {
	r := newTestRepo(t)
	r.tag("v1.0.0", r.commit(), false)
	r.tag("v2.0.0-rc.1", r.commit(), true)

	v, err := DetectVersion(r.dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0-rc.1", v.Version)
	assert.Equal(t, "rc.1", v.Prerelease)
	assert.True(t, v.IsPrerelease)
	assert.True(t, v.IsRelease)
}

func TestDetectVersionPicksHighestTagOnCommit(t *testing.T) {
	r := newTestRepo(t)
	h := r.commit()
	r.tag("v1.9.0", h, false)
	r.tag("v1.10.0", h, false)
	r.tag("not-a-version", h, false)

	v, err := DetectVersion(r.dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", v.Version)
}

func TestDetectVersionNotARepo(t *testing.T) {
	_, err := DetectVersion(t.TempDir(), nil)
	require.Error(t, err)
}

func TestDetectVersionDetachedHeadBranchFromEnv(t *testing.T) {
	r := newTestRepo(t)
	h := r.commit()
	r.commit()

	wt, err := r.repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{Hash: h}))

	// The process environment is not consulted.
	t.Setenv("CI_COMMIT_BRANCH", "from-process")

	v, err := DetectVersion(r.dir, map[string]string{"GITHUB_REF_NAME": "release/2.3"})
	require.NoError(t, err)
	assert.Equal(t, "release/2.3", v.Branch)

	v, err = DetectVersion(r.dir, nil)
	require.NoError(t, err)
	assert.Empty(t, v.Branch)
}
