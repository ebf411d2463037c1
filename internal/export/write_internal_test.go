package export

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/tree-maker/internal/types"
)

func withLinkFile(t *testing.T, replacement func(string, string) error) {
	t.Helper()
	original := linkFile
	linkFile = replacement
	t.Cleanup(func() { linkFile = original })
}

func TestWriteFileWithoutHardLinks(t *testing.T) {
	testCases := []struct {
		name    string
		linkErr error
	}{
		{name: "unsupported", linkErr: errors.ErrUnsupported},
		{name: "not permitted", linkErr: syscall.EPERM},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			withLinkFile(t, func(oldPath, newPath string) error {
				return &os.LinkError{Op: "link", Old: oldPath, New: newPath, Err: testCase.linkErr}
			})
			directory := filepath.Join(t.TempDir(), "tree-maker")
			targetPath := filepath.Join(directory, "tree.txt")

			require.NoError(t, WriteFile(targetPath, "- a.txt\n"))

			written, err := os.ReadFile(targetPath)
			require.NoError(t, err)
			assert.Equal(t, "- a.txt\n", string(written))
			remaining, err := os.ReadDir(directory)
			require.NoError(t, err)
			assert.Len(t, remaining, 1, "staging file must be removed")
		})
	}
}

func TestWriteFileWithoutHardLinksKeepsConcurrentTarget(t *testing.T) {
	withLinkFile(t, func(oldPath, newPath string) error {
		if err := os.WriteFile(newPath, []byte("other"), 0o644); err != nil {
			return err
		}
		return &os.LinkError{Op: "link", Old: oldPath, New: newPath, Err: errors.ErrUnsupported}
	})
	targetPath := filepath.Join(t.TempDir(), "tree.txt")

	err := WriteFile(targetPath, "mine")
	require.ErrorIs(t, err, types.ErrFileExists)

	preserved, readErr := os.ReadFile(targetPath)
	require.NoError(t, readErr)
	assert.Equal(t, "other", string(preserved))
}

func TestWriteFileReportsOtherLinkFailures(t *testing.T) {
	withLinkFile(t, func(oldPath, newPath string) error {
		return &os.LinkError{Op: "link", Old: oldPath, New: newPath, Err: syscall.EIO}
	})
	targetPath := filepath.Join(t.TempDir(), "tree.txt")

	err := WriteFile(targetPath, "content")
	require.ErrorIs(t, err, types.ErrWrite)
	_, statErr := os.Stat(targetPath)
	assert.True(t, os.IsNotExist(statErr), "no partial target may be left")
}
