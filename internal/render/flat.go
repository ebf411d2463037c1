package render

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/temirov/tree-maker/internal/types"
)

const (
	textFolderOpening = "- ["
	textFolderClosing = "]"
	textFilePrefix    = "- "
)

// CSV emits one name,kind row per entry without a header.
func CSV(entries []types.Entry, _ string) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)
	for _, entry := range entries {
		if err := writer.Write([]string{entry.Name, entry.NodeType()}); err != nil {
			return "", fmt.Errorf(errorEncodeFormat, types.FormatCSV, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf(errorEncodeFormat, types.FormatCSV, err)
	}
	return builder.String(), nil
}

// Text emits a bullet per entry; directory names are bracketed.
func Text(entries []types.Entry, _ string) (string, error) {
	var builder strings.Builder
	for _, entry := range entries {
		if entry.IsDirectory {
			builder.WriteString(textFolderOpening + entry.Name + textFolderClosing + "\n")
			continue
		}
		builder.WriteString(textFilePrefix + entry.Name + "\n")
	}
	return builder.String(), nil
}
