package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/temirov/tree-maker/internal/types"
	"github.com/temirov/tree-maker/internal/utils"
)

const directorySuffix = "/"

// IgnoreMatcher evaluates root-relative paths against compiled gitignore rules.
type IgnoreMatcher struct {
	compiled *ignore.GitIgnore
}

// CompileIgnoreRules compiles gitignore pattern text. Blank lines and comments are skipped,
// trailing slashes restrict a rule to directories, a leading ! re-includes a prior match.
func CompileIgnoreRules(patternText string) *IgnoreMatcher {
	normalizedText := strings.ReplaceAll(patternText, "\r\n", "\n")
	return &IgnoreMatcher{compiled: ignore.CompileIgnoreLines(strings.Split(normalizedText, "\n")...)}
}

// LoadIgnoreRules reads <root>/.gitignore. A missing file yields a nil matcher and no error.
//
// #nosec G304
func LoadIgnoreRules(root string) (*IgnoreMatcher, error) {
	gitIgnorePath := filepath.Join(root, utils.GitIgnoreFileName)
	fileContent, readError := os.ReadFile(gitIgnorePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrDiscovery, gitIgnorePath, readError)
	}
	return CompileIgnoreRules(string(fileContent)), nil
}

// IsIgnored reports whether a forward-slash root-relative path is ignored.
// Directory paths must carry a trailing slash for directory-only rules to apply.
func (matcher *IgnoreMatcher) IsIgnored(relativePath string) bool {
	if matcher == nil || matcher.compiled == nil {
		return false
	}
	return matcher.compiled.MatchesPath(relativePath)
}

// isEntryIgnored applies the matcher to an entry, appending the directory suffix when needed.
func (matcher *IgnoreMatcher) isEntryIgnored(relativePath string, isDirectory bool) bool {
	if isDirectory && !strings.HasSuffix(relativePath, directorySuffix) {
		relativePath += directorySuffix
	}
	return matcher.IsIgnored(relativePath)
}
