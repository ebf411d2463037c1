// Package render serializes a discovered entry list into one of the supported output formats.
//
// Every renderer is a pure function over the flat, sorted, depth-annotated entry list;
// no renderer reorders entries.
package render

import (
	"fmt"

	"github.com/temirov/tree-maker/internal/types"
)

// Renderer turns entries into the text of a single format.
type Renderer func(entries []types.Entry, rootName string) (string, error)

type formatDescriptor struct {
	renderer  Renderer
	extension string
}

var formatTable = map[types.Format]formatDescriptor{
	types.FormatMarkdown: {renderer: Markdown, extension: "md"},
	types.FormatJSON:     {renderer: JSON, extension: "json"},
	types.FormatXML:      {renderer: XML, extension: "xml"},
	types.FormatYAML:     {renderer: YAML, extension: "yaml"},
	types.FormatCSV:      {renderer: CSV, extension: "csv"},
	types.FormatText:     {renderer: Text, extension: "txt"},
}

const (
	markdownFenceOpening = "```markdown\n"
	markdownFenceClosing = "```"
)

func lookup(format types.Format) (formatDescriptor, error) {
	descriptor, found := formatTable[format]
	if !found {
		return formatDescriptor{}, &types.FormatError{Value: string(format)}
	}
	return descriptor, nil
}

// RendererFor returns the renderer registered for format.
func RendererFor(format types.Format) (Renderer, error) {
	descriptor, err := lookup(format)
	if err != nil {
		return nil, err
	}
	return descriptor.renderer, nil
}

// Extension returns the file extension, without the dot, used when exporting format.
func Extension(format types.Format) (string, error) {
	descriptor, err := lookup(format)
	if err != nil {
		return "", err
	}
	return descriptor.extension, nil
}

// Render serializes entries using the renderer registered for format.
func Render(format types.Format, entries []types.Entry, rootName string) (string, error) {
	renderer, err := RendererFor(format)
	if err != nil {
		return "", err
	}
	return renderer(entries, rootName)
}

// Document renders the exported artifact: markdown is wrapped in a fenced code block,
// every other format is returned as rendered.
func Document(format types.Format, entries []types.Entry, rootName string) (string, error) {
	rendered, err := Render(format, entries, rootName)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", format, err)
	}
	if format == types.FormatMarkdown {
		return markdownFenceOpening + rendered + markdownFenceClosing, nil
	}
	return rendered, nil
}
