package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/tree-maker/internal/discovery"
	"github.com/temirov/tree-maker/internal/render"
	"github.com/temirov/tree-maker/internal/services/clipboard"
	"github.com/temirov/tree-maker/internal/types"
	"github.com/temirov/tree-maker/internal/utils"
)

const (
	errorWorkspaceFormat   = "%w: resolving %s: %w"
	errorRootOutsideFormat = "%w: %s is outside the workspace %s"
	errorEmptyResultFormat = "%w: %s"
	errorClipboardFormat   = "copy to clipboard: %w"

	logFieldRoot      = "root"
	logFieldFormat    = "format"
	logFieldEntries   = "entries"
	logFieldPath      = "path"
	logMessageRender  = "rendered file tree"
	logMessageWritten = "File created successfully"
	logMessageCopied  = "File tree copied to the clipboard"
)

var errMissingCopier = errors.New("copy to clipboard: no clipboard available")

// Request describes one export: what to discover and how to publish it.
type Request struct {
	// Workspace is the folder that bounds Root and receives OutputFolder.
	Workspace string
	// Root is the discovery root. Relative roots resolve against Workspace; empty means Workspace.
	Root         string
	Filter       types.FilterConfig
	Format       types.Format
	Naming       NameOptions
	OutputFolder string
}

// Result is the outcome of a successful export.
type Result struct {
	Document string
	Entries  []types.Entry
	// Path is the exported file, empty for clipboard and preview exports.
	Path string
}

// Service discovers, renders, and publishes file trees.
type Service struct {
	Copier clipboard.Copier
	Logger *zap.Logger
	// Now supplies the timestamp embedded in file names.
	Now func() time.Time
}

// NewService returns a Service publishing to copier. A nil logger discards output.
func NewService(copier clipboard.Copier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Copier: copier, Logger: logger, Now: time.Now}
}

// Preview discovers and renders the document without publishing it.
func (service *Service) Preview(request Request) (Result, error) {
	result, _, err := service.prepare(request)
	return result, err
}

// ToFile writes the document to <workspace>/<output folder>/<file name>.
func (service *Service) ToFile(request Request) (Result, error) {
	result, workspace, err := service.prepare(request)
	if err != nil {
		return Result{}, err
	}

	fileName, err := FileName(request.Naming, request.Format, service.now())
	if err != nil {
		return Result{}, err
	}
	targetPath := filepath.Join(workspace, request.OutputFolder, fileName)
	if err := WriteFile(targetPath, result.Document); err != nil {
		return Result{}, err
	}

	service.logger().Info(logMessageWritten, zap.String(logFieldPath, targetPath))
	result.Path = targetPath
	return result, nil
}

// ToClipboard copies the document to the clipboard.
func (service *Service) ToClipboard(request Request) (Result, error) {
	if service.Copier == nil {
		return Result{}, errMissingCopier
	}
	result, err := service.Preview(request)
	if err != nil {
		return Result{}, err
	}
	if err := service.Copier.Copy(result.Document); err != nil {
		return Result{}, fmt.Errorf(errorClipboardFormat, err)
	}
	service.logger().Info(logMessageCopied)
	return result, nil
}

func (service *Service) prepare(request Request) (Result, string, error) {
	workspace, root, err := resolveLocations(request.Workspace, request.Root)
	if err != nil {
		return Result{}, "", err
	}
	if _, err := render.RendererFor(request.Format); err != nil {
		return Result{}, "", err
	}

	entries, err := discovery.NewDiscoverer(request.Filter, service.logger()).Discover(root)
	if err != nil {
		return Result{}, "", err
	}
	if len(entries) == 0 {
		return Result{}, "", fmt.Errorf(errorEmptyResultFormat, types.ErrEmptyResult, utils.RelativePathOrSelf(root, workspace))
	}

	document, err := render.Document(request.Format, entries, filepath.Base(root))
	if err != nil {
		return Result{}, "", err
	}
	service.logger().Debug(logMessageRender,
		zap.String(logFieldRoot, root),
		zap.String(logFieldFormat, string(request.Format)),
		zap.Int(logFieldEntries, len(entries)))
	return Result{Document: document, Entries: entries}, workspace, nil
}

func (service *Service) logger() *zap.Logger {
	if service.Logger == nil {
		return zap.NewNop()
	}
	return service.Logger
}

func (service *Service) now() time.Time {
	if service.Now == nil {
		return time.Now()
	}
	return service.Now()
}

// resolveLocations returns absolute workspace and root paths, rejecting roots outside the workspace.
func resolveLocations(workspace string, root string) (string, string, error) {
	if workspace == "" {
		return "", "", types.ErrNoWorkspace
	}
	absoluteWorkspace, err := filepath.Abs(workspace)
	if err != nil {
		return "", "", fmt.Errorf(errorWorkspaceFormat, types.ErrNoWorkspace, workspace, err)
	}

	absoluteRoot := absoluteWorkspace
	if root != "" {
		if filepath.IsAbs(root) {
			absoluteRoot = filepath.Clean(root)
		} else {
			absoluteRoot = filepath.Join(absoluteWorkspace, root)
		}
	}
	if !utils.IsWithin(absoluteRoot, absoluteWorkspace) {
		return "", "", fmt.Errorf(errorRootOutsideFormat, types.ErrInvalidRoot, absoluteRoot, absoluteWorkspace)
	}
	return absoluteWorkspace, absoluteRoot, nil
}
