package render

import (
	"strings"

	"github.com/temirov/tree-maker/internal/types"
)

const (
	folderIcon        = "📂"
	fileIcon          = "📄"
	rootMarker        = ". "
	branchConnector   = "├──"
	lastConnector     = "└──"
	depthGuide        = "│"
	depthIndentUnit   = "  "
	folderNameSuffix  = "/"
	markdownSeparator = " "
)

// Markdown draws the tree with box glyphs. The └── connector marks every directory and the
// final entry of the whole list; siblings are not grouped.
func Markdown(entries []types.Entry, rootName string) (string, error) {
	var builder strings.Builder
	builder.WriteString(rootMarker + folderIcon + markdownSeparator + rootName + "\n")

	lastIndex := len(entries) - 1
	for index, entry := range entries {
		if entry.Depth > 1 {
			builder.WriteString(depthGuide + strings.Repeat(depthIndentUnit, entry.Depth-1))
		}

		connector := branchConnector
		if entry.IsDirectory || index == lastIndex {
			connector = lastConnector
		}
		icon := fileIcon
		suffix := ""
		if entry.IsDirectory {
			icon = folderIcon
			suffix = folderNameSuffix
		}

		builder.WriteString(connector + markdownSeparator + icon + markdownSeparator + entry.Name + suffix + "\n")
	}
	return builder.String(), nil
}
