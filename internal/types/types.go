// Package types defines every cross‑package data structure used by the tree-maker CLI.
package types

import (
	"errors"
	"strings"
)

const (
	NodeTypeFile   = "file"
	NodeTypeFolder = "folder"

	CommandExport = "export"
	CommandCopy   = "copy"
	CommandPrint  = "print"
	CommandTree   = "tree"

	// MatchEverythingPattern is the include pattern used when none is configured.
	MatchEverythingPattern = "**/*"

	// DefaultMaxDepth bounds recursive discovery when no depth is configured.
	DefaultMaxDepth = 5
)

// Format names one of the supported output encodings.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatXML      Format = "xml"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatText     Format = "txt"
)

// SupportedFormats lists the formats in presentation order.
var SupportedFormats = []Format{FormatMarkdown, FormatJSON, FormatXML, FormatYAML, FormatCSV, FormatText}

// ParseFormat normalizes a user supplied format name.
func ParseFormat(value string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	for _, supported := range SupportedFormats {
		if normalized == supported {
			return supported, nil
		}
	}
	return "", &FormatError{Value: value}
}

// FormatError reports a format outside SupportedFormats.
type FormatError struct {
	Value string
}

func (formatError *FormatError) Error() string {
	return "unsupported output format '" + formatError.Value + "'"
}

// Unwrap lets errors.Is match ErrUnsupportedFormat.
func (formatError *FormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// Sentinel errors shared by discovery, rendering, and export.
var (
	ErrInvalidRoot       = errors.New("the folder is not valid")
	ErrNoWorkspace       = errors.New("no workspace folder available")
	ErrDiscovery         = errors.New("error while finding files")
	ErrEmptyResult       = errors.New("no files found in the folder")
	ErrUnsupportedFormat = errors.New("the output format is not supported")
	ErrFileExists        = errors.New("the file name already exists")
	ErrWrite             = errors.New("the file has not been created")
	ErrInvalidFilter     = errors.New("invalid filter configuration")
)

// FilterConfig controls which entries discovery returns. It is read-only once built.
type FilterConfig struct {
	IncludePatterns  []string
	ExcludePatterns  []string
	OnlyFiles        bool
	Recursive        bool
	MaxDepth         int
	IncludeHidden    bool
	RespectGitignore bool
}

// DefaultFilterConfig mirrors the editor defaults: recursive to depth 5, hidden
// entries skipped, .gitignore honored.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		IncludePatterns:  []string{MatchEverythingPattern},
		Recursive:        true,
		MaxDepth:         DefaultMaxDepth,
		RespectGitignore: true,
	}
}

// EffectiveDepth is the traversal ceiling after applying the recursive switch.
func (filter FilterConfig) EffectiveDepth() int {
	if !filter.Recursive {
		return 1
	}
	return filter.MaxDepth
}

// Entry is one discovered file or directory.
type Entry struct {
	Path        string
	Name        string
	IsDirectory bool
	Depth       int
}

// NodeType returns the label renderers use for the entry kind.
func (entry Entry) NodeType() string {
	if entry.IsDirectory {
		return NodeTypeFolder
	}
	return NodeTypeFile
}
