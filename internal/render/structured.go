package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/tree-maker/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader      = xml.Header
	xmlRootElement = "files"
	yamlRootKey    = "files"
	yamlStringTag  = "!!str"
	yamlIndent     = 2

	errorEncodeFormat = "encode %s: %w"
)

type jsonRecord struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Depth int    `json:"depth"`
}

type xmlItem struct {
	XMLName xml.Name
	Name    string `xml:",chardata"`
}

type xmlDocument struct {
	XMLName xml.Name `xml:"files"`
	Items   []xmlItem
}

// JSON emits an indented array of {type, name, depth} records.
func JSON(entries []types.Entry, _ string) (string, error) {
	records := make([]jsonRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, jsonRecord{Type: entry.NodeType(), Name: entry.Name, Depth: entry.Depth})
	}
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(indentPrefix, indentSpacer)
	if err := encoder.Encode(records); err != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatJSON, err)
	}
	return strings.TrimSuffix(buffer.String(), "\n"), nil
}

// XML emits a <files> document with one <folder> or <file> element per entry.
func XML(entries []types.Entry, _ string) (string, error) {
	document := xmlDocument{
		XMLName: xml.Name{Local: xmlRootElement},
		Items:   make([]xmlItem, 0, len(entries)),
	}
	for _, entry := range entries {
		document.Items = append(document.Items, xmlItem{
			XMLName: xml.Name{Local: entry.NodeType()},
			Name:    entry.Name,
		})
	}
	encoded, err := xml.MarshalIndent(document, indentPrefix, indentSpacer)
	if err != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatXML, err)
	}
	return xmlHeader + string(encoded), nil
}

// YAML emits a files: sequence of single-key mappings, name to kind.
func YAML(entries []types.Entry, _ string) (string, error) {
	sequence := &yaml.Node{Kind: yaml.SequenceNode}
	for _, entry := range entries {
		sequence.Content = append(sequence.Content, &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: yamlStringTag, Value: entry.Name},
				{Kind: yaml.ScalarNode, Tag: yamlStringTag, Value: entry.NodeType()},
			},
		})
	}
	document := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: yamlStringTag, Value: yamlRootKey},
			sequence,
		},
	}

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(document); err != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatYAML, err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatYAML, err)
	}
	return buffer.String(), nil
}
