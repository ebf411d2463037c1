// Package discovery turns a root directory and a filter configuration into a sorted,
// depth-annotated list of file-system entries.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/temirov/tree-maker/internal/types"
	"github.com/temirov/tree-maker/internal/utils"
)

const (
	// errorAbsolutePathFormat is used when the absolute root path cannot be determined.
	errorAbsolutePathFormat = "%w: getting absolute path for %s: %w"
	// errorRootMissingFormat is used when the root does not exist.
	errorRootMissingFormat = "%w: %s does not exist"
	// errorRootNotDirectoryFormat is used when the root is a file.
	errorRootNotDirectoryFormat = "%w: %s is not a directory"
	// errorStatRootFormat is used when the root cannot be inspected.
	errorStatRootFormat = "%w: stat %s: %w"
	// errorWalkFormat is used when traversal fails.
	errorWalkFormat = "%w: reading %s: %w"
	// errorStatEntryFormat is used when an entry cannot be inspected.
	errorStatEntryFormat = "%w: stat %s: %w"
	// errorMaxDepthFormat is used for a non-positive depth ceiling.
	errorMaxDepthFormat = "%w: max depth must be at least 1, got %d"
	// errorPatternFormat is used for a malformed glob pattern.
	errorPatternFormat = "%w: malformed %s pattern %q"

	includePatternKind = "include"
	excludePatternKind = "exclude"
	currentDirPrefix   = "./"
)

// Discoverer resolves entries for a root directory using its filter.
type Discoverer struct {
	Filter types.FilterConfig
	Logger *zap.Logger
}

// candidate is a path that survived glob matching, before type and depth annotation.
type candidate struct {
	absolutePath string
	relativePath string
}

// NewDiscoverer returns a Discoverer for filter. A nil logger discards debug output.
func NewDiscoverer(filter types.FilterConfig, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{Filter: filter, Logger: logger}
}

// Discover is a convenience wrapper around NewDiscoverer(filter, nil).Discover(root).
func Discover(root string, filter types.FilterConfig) ([]types.Entry, error) {
	return NewDiscoverer(filter, nil).Discover(root)
}

// Discover walks root and returns matching entries sorted by absolute path.
// An empty slice is a valid result.
func (discoverer *Discoverer) Discover(root string) ([]types.Entry, error) {
	logger := discoverer.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	includePatterns, excludePatterns, validationError := validateFilter(discoverer.Filter)
	if validationError != nil {
		return nil, validationError
	}

	absoluteRoot, rootError := resolveRoot(root)
	if rootError != nil {
		return nil, rootError
	}

	candidates, walkError := discoverer.collectCandidates(absoluteRoot, includePatterns, excludePatterns, logger)
	if walkError != nil {
		return nil, walkError
	}

	var gitIgnoreMatcher *IgnoreMatcher
	if discoverer.Filter.RespectGitignore {
		matcher, loadError := LoadIgnoreRules(absoluteRoot)
		if loadError != nil {
			return nil, loadError
		}
		gitIgnoreMatcher = matcher
	}

	sort.Slice(candidates, func(left, right int) bool {
		return candidates[left].absolutePath < candidates[right].absolutePath
	})

	entries := make([]types.Entry, 0, len(candidates))
	for _, match := range candidates {
		isDirectory, statError := statIsDirectory(match.absolutePath)
		if statError != nil {
			return nil, statError
		}
		if discoverer.Filter.OnlyFiles && isDirectory {
			continue
		}
		if gitIgnoreMatcher.isEntryIgnored(match.relativePath, isDirectory) {
			logger.Debug("skipping gitignored entry", zap.String("path", match.relativePath))
			continue
		}
		entries = append(entries, types.Entry{
			Path:        match.absolutePath,
			Name:        filepath.Base(match.absolutePath),
			IsDirectory: isDirectory,
			Depth:       utils.PathDepth(match.absolutePath, absoluteRoot),
		})
	}

	logger.Debug("discovery finished", zap.String("root", absoluteRoot), zap.Int("entries", len(entries)))
	return entries, nil
}

// collectCandidates walks the tree, pruning excluded, hidden, and too-deep directories,
// and keeps every path matched by an include pattern.
func (discoverer *Discoverer) collectCandidates(absoluteRoot string, includePatterns, excludePatterns []string, logger *zap.Logger) ([]candidate, error) {
	depthLimit := discoverer.Filter.EffectiveDepth()
	var candidates []candidate

	walkFunction := func(currentPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return fmt.Errorf(errorWalkFormat, types.ErrDiscovery, currentPath, walkError)
		}
		if currentPath == absoluteRoot {
			return nil
		}

		relativePath := utils.RelativePathOrSelf(currentPath, absoluteRoot)
		isTraversable := directoryEntry.IsDir()

		if !discoverer.Filter.IncludeHidden && utils.IsHiddenPath(relativePath) {
			return skipEntry(isTraversable)
		}
		if matchesAny(excludePatterns, relativePath, isTraversable) {
			logger.Debug("skipping excluded entry", zap.String("path", relativePath))
			return skipEntry(isTraversable)
		}

		depth := utils.PathDepth(currentPath, absoluteRoot)
		if depth > depthLimit {
			return skipEntry(isTraversable)
		}

		if matchesAny(includePatterns, relativePath, false) {
			candidates = append(candidates, candidate{absolutePath: currentPath, relativePath: relativePath})
		}

		if isTraversable && depth == depthLimit {
			return filepath.SkipDir
		}
		return nil
	}

	if walkError := filepath.WalkDir(absoluteRoot, walkFunction); walkError != nil {
		return nil, walkError
	}
	return candidates, nil
}

func skipEntry(isDirectory bool) error {
	if isDirectory {
		return filepath.SkipDir
	}
	return nil
}

// matchesAny reports whether relativePath matches one of patterns. Directories are also
// tested with a trailing slash so "**/dir/**" covers dir itself.
func matchesAny(patterns []string, relativePath string, isDirectory bool) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, relativePath); matched {
			return true
		}
		if isDirectory {
			if matched, _ := doublestar.Match(pattern, relativePath+directorySuffix); matched {
				return true
			}
		}
	}
	return false
}

func validateFilter(filter types.FilterConfig) ([]string, []string, error) {
	if filter.Recursive && filter.MaxDepth < 1 {
		return nil, nil, fmt.Errorf(errorMaxDepthFormat, types.ErrInvalidFilter, filter.MaxDepth)
	}
	includePatterns, includeError := normalizePatterns(filter.IncludePatterns, includePatternKind)
	if includeError != nil {
		return nil, nil, includeError
	}
	if len(includePatterns) == 0 {
		includePatterns = []string{types.MatchEverythingPattern}
	}
	excludePatterns, excludeError := normalizePatterns(filter.ExcludePatterns, excludePatternKind)
	if excludeError != nil {
		return nil, nil, excludeError
	}
	return includePatterns, excludePatterns, nil
}

func normalizePatterns(patterns []string, kind string) ([]string, error) {
	normalized := make([]string, 0, len(patterns))
	for _, pattern := range utils.DeduplicatePatterns(patterns) {
		cleaned := strings.TrimPrefix(filepath.ToSlash(pattern), currentDirPrefix)
		if !doublestar.ValidatePattern(cleaned) {
			return nil, fmt.Errorf(errorPatternFormat, types.ErrInvalidFilter, kind, pattern)
		}
		normalized = append(normalized, cleaned)
	}
	return normalized, nil
}

func resolveRoot(root string) (string, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, types.ErrInvalidRoot, root, absoluteError)
	}
	absoluteRoot = filepath.Clean(absoluteRoot)
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return "", fmt.Errorf(errorRootMissingFormat, types.ErrInvalidRoot, absoluteRoot)
		}
		return "", fmt.Errorf(errorStatRootFormat, types.ErrDiscovery, absoluteRoot, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(errorRootNotDirectoryFormat, types.ErrInvalidRoot, absoluteRoot)
	}
	return absoluteRoot, nil
}

// statIsDirectory follows symlinks; a dangling link is reported as a file.
func statIsDirectory(absolutePath string) (bool, error) {
	info, statError := os.Stat(absolutePath)
	if statError == nil {
		return info.IsDir(), nil
	}
	if errors.Is(statError, fs.ErrNotExist) {
		if _, linkError := os.Lstat(absolutePath); linkError == nil {
			return false, nil
		}
	}
	return false, fmt.Errorf(errorStatEntryFormat, types.ErrDiscovery, absolutePath, statError)
}
