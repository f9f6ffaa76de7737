package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineDir(t *testing.T) {
	doc := "---\nid: halt\nstart: \"h\"\nfinals: [\"h\"]\n---\n"
	dir, repo := MachineDir(t, map[string]string{
		"halt.md":        doc,
		"nested/deep.md": doc,
	})
	require.NotNil(t, repo)
	assert.True(t, filepath.IsAbs(dir))

	got, err := os.ReadFile(filepath.Join(dir, "halt.md"))
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
	assert.FileExists(t, filepath.Join(dir, "nested", "deep.md"))
}
