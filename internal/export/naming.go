// Package export publishes a rendered tree document to a file or to the clipboard.
package export

import (
	"time"

	"github.com/temirov/tree-maker/internal/render"
	"github.com/temirov/tree-maker/internal/types"
	"github.com/temirov/tree-maker/internal/utils"
)

const (
	// DefaultOutputFolder is the workspace relative folder receiving exported files.
	DefaultOutputFolder = "tree-maker"
	// DefaultFileName is the name component of exported files.
	DefaultFileName = "tree"
	// DefaultSeparator joins the timestamp and the name component.
	DefaultSeparator = "-"

	extensionDelimiter = "."
)

// NameOptions are the user controlled parts of an export file name.
type NameOptions struct {
	Prefix    string
	Name      string
	Suffix    string
	Separator string
}

// DefaultNameOptions returns the naming used when nothing is configured.
func DefaultNameOptions() NameOptions {
	return NameOptions{Name: DefaultFileName, Separator: DefaultSeparator}
}

// FileName builds <prefix><timestamp><separator><name><suffix>.<extension>.
// The timestamp is now in UTC with every non-digit removed.
func FileName(options NameOptions, format types.Format, now time.Time) (string, error) {
	extension, err := render.Extension(format)
	if err != nil {
		return "", err
	}
	return options.Prefix +
		utils.FormatTimestampDigits(now) +
		options.Separator +
		options.Name +
		options.Suffix +
		extensionDelimiter + extension, nil
}
