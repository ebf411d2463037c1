// Package utils contains general helper functions used across the tree-maker tool.
package utils

import (
	"path/filepath"
	"strings"
)

// File and directory names used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file read at the discovery root.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the global configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the name of the per-project configuration file.
	LocalConfigFileName = ".tree-maker.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding ConfigFileName.
	GlobalConfigDirectoryName = ".tree-maker"
)

const (
	pathSegmentSeparator = "/"
	hiddenEntryPrefix    = "."
	currentDirectory     = "."
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// Blank patterns are dropped and the first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the forward-slash relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return currentDirectory
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// PathDepth returns the number of segments separating absolutePath from absoluteRoot.
// Direct children of the root have depth 1.
func PathDepth(absolutePath, absoluteRoot string) int {
	pathSegments := strings.Split(filepath.ToSlash(filepath.Clean(absolutePath)), pathSegmentSeparator)
	rootSegments := strings.Split(filepath.ToSlash(filepath.Clean(absoluteRoot)), pathSegmentSeparator)
	if rootSegments[len(rootSegments)-1] == "" {
		// filesystem root such as "/" splits into two empty segments
		rootSegments = rootSegments[:len(rootSegments)-1]
	}
	return len(pathSegments) - len(rootSegments)
}

// IsHiddenPath reports whether any segment of a forward-slash relative path starts with a dot.
func IsHiddenPath(relativePath string) bool {
	if relativePath == "" || relativePath == currentDirectory {
		return false
	}
	for _, segment := range strings.Split(relativePath, pathSegmentSeparator) {
		if strings.HasPrefix(segment, hiddenEntryPrefix) {
			return true
		}
	}
	return false
}

// IsWithin reports whether candidate equals parent or lies beneath it.
func IsWithin(candidate, parent string) bool {
	relativePath, relErr := filepath.Rel(filepath.Clean(parent), filepath.Clean(candidate))
	if relErr != nil {
		return false
	}
	if relativePath == currentDirectory {
		return true
	}
	return relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator))
}
