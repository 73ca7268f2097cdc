package gitinfo_test

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractor-dev/contractor/internal/adapters/outbound/gitinfo"
)

func TestIsGitRepo_NotARepo(t *testing.T) {
	g := gitinfo.New()
	assert.False(t, g.IsGitRepo(t.TempDir()))
}

func TestCommitHash_NotARepo(t *testing.T) {
	g := gitinfo.New()
	_, err := g.CommitHash(t.TempDir())
	assert.Error(t, err)
}

func TestIsGitRepo_FreshRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	g := gitinfo.New()
	assert.True(t, g.IsGitRepo(dir))

	// A repo without commits has no HEAD to resolve.
	_, err = g.CommitHash(dir)
	assert.Error(t, err)
}
