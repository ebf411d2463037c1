// Package clipboard publishes rendered trees to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	systemclipboard "github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility exists on the host.
var ErrUnavailable = errors.New("system clipboard unavailable")

const errorWriteFormat = "write clipboard: %w"

// Copier receives a rendered document.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier with the host clipboard.
type Service struct{}

// NewService returns the host clipboard Copier.
func NewService() *Service {
	return &Service{}
}

// Copy replaces the clipboard contents with text.
func (service *Service) Copy(text string) error {
	if systemclipboard.Unsupported {
		return ErrUnavailable
	}
	if err := systemclipboard.WriteAll(text); err != nil {
		return fmt.Errorf(errorWriteFormat, err)
	}
	return nil
}

var _ Copier = (*Service)(nil)
