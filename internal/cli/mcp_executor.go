package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tree-maker/internal/config"
	"github.com/temirov/tree-maker/internal/export"
	"github.com/temirov/tree-maker/internal/services/mcp"
	"github.com/temirov/tree-maker/internal/types"
)

const (
	serveUse              = "serve"
	serveShortDescription = "serve the tree command over HTTP for local tools"
	serveLongDescription  = `Start an HTTP server bound to --address. GET /capabilities lists the commands and
POST /commands/tree renders the tree described by the JSON payload.`

	addressFlagName           = "address"
	addressFlagDescription    = "listen address"
	defaultServeAddress       = "127.0.0.1:0"
	serverListeningPrefix     = "tree-maker server listening on "
	serverListeningFormat     = serverListeningPrefix + "%s\n"
	treeCapabilityDescription = "Render the directory tree of a workspace folder"
	logMessageAnnounceFailed  = "unable to announce listen address"
	logFieldAddress           = "address"
)

// treeCommandRequest is the JSON payload of POST /commands/tree. Absent fields keep the
// configured defaults.
type treeCommandRequest struct {
	Path             string   `json:"path"`
	Format           string   `json:"format"`
	Include          []string `json:"include"`
	Exclude          []string `json:"exclude"`
	OnlyFiles        *bool    `json:"onlyFiles"`
	Recursive        *bool    `json:"recursive"`
	MaxDepth         *int     `json:"maxDepth"`
	IncludeHidden    *bool    `json:"includeHidden"`
	RespectGitignore *bool    `json:"respectGitignore"`
}

type serveOptions struct {
	address    string
	workspace  string
	configPath string
}

// createServeCommand returns the serve subcommand.
func createServeCommand(dependencies Dependencies) *cobra.Command {
	var options serveOptions

	serveCommand := &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Long:  serveLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return startCommandServer(command.Context(), command.OutOrStdout(), options, dependencies)
		},
	}
	serveCommand.Flags().StringVar(&options.address, addressFlagName, defaultServeAddress, addressFlagDescription)
	serveCommand.Flags().StringVar(&options.workspace, workspaceFlagName, "", workspaceFlagDescription)
	serveCommand.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	return serveCommand
}

func mcpCapabilities() []mcp.Capability {
	return []mcp.Capability{
		{Name: types.CommandTree, Description: treeCapabilityDescription},
	}
}

// startCommandServer serves until ctx is canceled, announcing the bound address on writer.
func startCommandServer(ctx context.Context, writer io.Writer, options serveOptions, dependencies Dependencies) error {
	if ctx == nil {
		ctx = context.Background()
	}
	workspace, err := resolveWorkspace(options.workspace)
	if err != nil {
		return err
	}
	defaults, err := loadResolvedConfiguration(workspace, options.configPath)
	if err != nil {
		return err
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	server := mcp.NewServer(mcp.Config{
		Address:      options.address,
		Capabilities: mcpCapabilities(),
		Executors: map[string]mcp.CommandExecutor{
			types.CommandTree: newTreeCommandExecutor(newExportService(dependencies), workspace, defaults),
		},
		Logger: logger,
	})
	return server.Run(ctx, func(address string) {
		if _, err := fmt.Fprintf(writer, serverListeningFormat, address); err != nil {
			logger.Debug(logMessageAnnounceFailed, zap.String(logFieldAddress, address), zap.Error(err))
		}
	})
}

// newTreeCommandExecutor renders the requested tree without publishing it.
func newTreeCommandExecutor(service *export.Service, workspace string, defaults config.ResolvedConfiguration) mcp.CommandExecutor {
	return mcp.CommandExecutorFunc(func(commandContext context.Context, request mcp.CommandRequest) (mcp.CommandResponse, error) {
		exportRequest, parseErr := parseTreeRequest(request.Payload, workspace, defaults)
		if parseErr != nil {
			return mcp.CommandResponse{}, mcp.NewCommandExecutionError(http.StatusBadRequest, fmt.Errorf("decode tree request: %w", parseErr))
		}
		if contextErr := commandContext.Err(); contextErr != nil {
			return mcp.CommandResponse{}, contextErr
		}
		result, executionErr := service.Preview(exportRequest)
		if executionErr != nil {
			return mcp.CommandResponse{}, mcp.NewCommandExecutionError(statusCodeForError(executionErr), fmt.Errorf("execute tree: %w", executionErr))
		}
		return mcp.CommandResponse{
			Output: result.Document,
			Format: string(exportRequest.Format),
		}, nil
	})
}

func parseTreeRequest(payload json.RawMessage, workspace string, defaults config.ResolvedConfiguration) (export.Request, error) {
	var requestBody treeCommandRequest
	if len(bytes.TrimSpace(payload)) > 0 {
		decoder := json.NewDecoder(bytes.NewReader(payload))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&requestBody); err != nil {
			return export.Request{}, err
		}
	}

	filter := defaults.Filter
	if requestBody.Include != nil {
		filter.IncludePatterns = append([]string{}, requestBody.Include...)
	}
	if requestBody.Exclude != nil {
		filter.ExcludePatterns = append([]string{}, requestBody.Exclude...)
	}
	filter.OnlyFiles = resolveBoolean(requestBody.OnlyFiles, filter.OnlyFiles)
	filter.Recursive = resolveBoolean(requestBody.Recursive, filter.Recursive)
	filter.IncludeHidden = resolveBoolean(requestBody.IncludeHidden, filter.IncludeHidden)
	filter.RespectGitignore = resolveBoolean(requestBody.RespectGitignore, filter.RespectGitignore)
	if requestBody.MaxDepth != nil {
		filter.MaxDepth = *requestBody.MaxDepth
	}

	format := defaults.Format
	if strings.TrimSpace(requestBody.Format) != "" {
		parsed, err := types.ParseFormat(requestBody.Format)
		if err != nil {
			return export.Request{}, err
		}
		format = parsed
	}

	return export.Request{
		Workspace:    workspace,
		Root:         strings.TrimSpace(requestBody.Path),
		Filter:       filter,
		Format:       format,
		Naming:       defaults.Naming,
		OutputFolder: defaults.OutputFolder,
	}, nil
}

func statusCodeForError(err error) int {
	switch {
	case errors.Is(err, types.ErrEmptyResult):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidRoot),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, types.ErrUnsupportedFormat),
		errors.Is(err, types.ErrNoWorkspace):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func resolveBoolean(value *bool, defaultValue bool) bool {
	if value == nil {
		return defaultValue
	}
	return *value
}
