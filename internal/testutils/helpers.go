package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// MachineDir initializes a loam repository in a temp dir and writes each
// machine document (file name to content) into it. It returns the absolute
// dir and the repository, failing the test on any error.
func MachineDir(t *testing.T, docs map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	for name, content := range docs {
		WriteMachine(t, dir, name, content)
	}
	return dir, repo
}

// WriteMachine writes one machine document under dir.
func WriteMachine(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write machine %s", name)
}
