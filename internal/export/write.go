package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/tree-maker/internal/types"
)

const (
	outputDirectoryPermissions = 0o755
	outputFilePermissions      = 0o644
	temporaryFilePattern       = ".%s.*.tmp"

	errorCreateDirectoryFormat = "%w: creating directory %s: %w"
	errorTargetExistsFormat    = "%w: %s"
	errorInspectTargetFormat   = "%w: inspecting %s: %w"
	errorTemporaryFileFormat   = "%w: creating temporary file in %s: %w"
	errorWriteContentFormat    = "%w: writing %s: %w"
	errorPublishFormat         = "%w: publishing %s: %w"
)

// linkFile publishes the staged temporary file at the target path.
var linkFile = os.Link

// WriteFile creates targetPath holding content. Parent directories are created as needed.
// An existing target is never replaced: the content is staged in a temporary sibling and
// hard linked into place, so the target either appears complete or not at all. Where the
// filesystem refuses hard links the target is created exclusively and written directly.
func WriteFile(targetPath string, content string) error {
	directory := filepath.Dir(targetPath)
	if err := os.MkdirAll(directory, outputDirectoryPermissions); err != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, types.ErrWrite, directory, err)
	}

	if _, statErr := os.Lstat(targetPath); statErr == nil {
		return fmt.Errorf(errorTargetExistsFormat, types.ErrFileExists, targetPath)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf(errorInspectTargetFormat, types.ErrWrite, targetPath, statErr)
	}

	temporaryFile, createErr := os.CreateTemp(directory, fmt.Sprintf(temporaryFilePattern, filepath.Base(targetPath)))
	if createErr != nil {
		return fmt.Errorf(errorTemporaryFileFormat, types.ErrWrite, directory, createErr)
	}
	temporaryPath := temporaryFile.Name()
	defer os.Remove(temporaryPath)

	if err := writeAndSync(temporaryFile, content); err != nil {
		return fmt.Errorf(errorWriteContentFormat, types.ErrWrite, targetPath, err)
	}

	linkErr := linkFile(temporaryPath, targetPath)
	switch {
	case linkErr == nil:
		return nil
	case errors.Is(linkErr, fs.ErrExist):
		return fmt.Errorf(errorTargetExistsFormat, types.ErrFileExists, targetPath)
	case errors.Is(linkErr, errors.ErrUnsupported), errors.Is(linkErr, fs.ErrPermission):
		return writeExclusive(targetPath, content)
	default:
		return fmt.Errorf(errorPublishFormat, types.ErrWrite, targetPath, linkErr)
	}
}

// writeExclusive publishes content on filesystems without hard links. The target is created
// with O_EXCL and removed again if writing it fails.
func writeExclusive(targetPath string, content string) error {
	file, openErr := os.OpenFile(targetPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, outputFilePermissions)
	if openErr != nil {
		if errors.Is(openErr, fs.ErrExist) {
			return fmt.Errorf(errorTargetExistsFormat, types.ErrFileExists, targetPath)
		}
		return fmt.Errorf(errorPublishFormat, types.ErrWrite, targetPath, openErr)
	}
	if err := writeAndSync(file, content); err != nil {
		os.Remove(targetPath)
		return fmt.Errorf(errorWriteContentFormat, types.ErrWrite, targetPath, err)
	}
	return nil
}

func writeAndSync(file *os.File, content string) error {
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		return err
	}
	if err := file.Chmod(outputFilePermissions); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
