package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ResolvePath("~/mask")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "mask"), got)
}

func TestResolvePath_EmptyErrors(t *testing.T) {
	_, err := ResolvePath("")
	assert.Error(t, err)
}

func TestEnsureParent_CreatesNestedDirs(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "a", "b", "c.txt")

	require.NoError(t, EnsureParent(target))
	assert.True(t, DirExists(filepath.Join(tmp, "a", "b")))
	assert.False(t, FileExists(target))
}

func TestFileExists_RegularOnly(t *testing.T) {
	tmp := t.TempDir()
	f := filepath.Join(tmp, "x")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	assert.True(t, FileExists(f))
	assert.False(t, FileExists(tmp))
}
