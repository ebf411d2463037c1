// Package cli provides the tree-maker command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tree-maker/internal/config"
	"github.com/temirov/tree-maker/internal/export"
	"github.com/temirov/tree-maker/internal/services/clipboard"
	"github.com/temirov/tree-maker/internal/types"
	"github.com/temirov/tree-maker/internal/utils"
)

const (
	rootUse              = "tree-maker"
	pathArgumentUsage    = " [path]"
	rootShortDescription = "export directory trees as markdown, json, xml, yaml, csv, or txt"
	rootLongDescription  = `tree-maker walks a folder and renders its files and directories as a tree.
Use export to write the tree into the output folder, copy to place it on the clipboard,
and print to show it. Defaults come from ~/.tree-maker/config.yaml and ./.tree-maker.yaml.`

	exportUse              = types.CommandExport + pathArgumentUsage
	exportAlias            = "e"
	exportShortDescription = "write the tree into the output folder (" + exportAlias + ")"
	exportUsageExample     = `  # Export the current folder as markdown
  tree-maker export

  # Export ./src as YAML, two levels deep
  tree-maker export --format yaml --depth 2 ./src`

	copyUse              = types.CommandCopy + pathArgumentUsage
	copyAlias            = "c"
	copyShortDescription = "copy the tree to the clipboard (" + copyAlias + ")"
	copyUsageExample     = `  # Copy only the files of the current folder, hidden entries included
  tree-maker copy --only-files --hidden yes`

	printUse              = types.CommandPrint + pathArgumentUsage
	printAlias            = "p"
	printShortDescription = "print the tree (" + printAlias + ")"
	printUsageExample     = `  # Print a CSV listing that skips test fixtures
  tree-maker print --format csv -e "**/testdata/**"`

	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the configuration template to ./.tree-maker.yaml, or to
~/.tree-maker/config.yaml with --global. Existing files are kept unless --force is given.`

	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration instead of the project one"
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"

	warningNoFilesMessage    = "No files found in the folder"
	warningFileExistsMessage = "The file name already exists"
	configurationWrittenText = "Configuration written to %s\n"
	logFieldError            = "error"
)

// Dependencies are the collaborators shared by every command.
type Dependencies struct {
	Logger *zap.Logger
	Copier clipboard.Copier
	// Now overrides the clock used for export file names.
	Now func() time.Time
}

// Execute runs tree-maker with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger, Copier: clipboard.NewService()})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return fang.Execute(
		ctx,
		rootCommand,
		fang.WithVersion(utils.GetApplicationVersion()),
		fang.WithNotifySignal(os.Interrupt),
	)
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.AddCommand(
		createExportCommand(dependencies),
		createCopyCommand(dependencies),
		createPrintCommand(dependencies),
		createInitCommand(),
		createServeCommand(dependencies),
	)
	return rootCommand
}

func newExportService(dependencies Dependencies) *export.Service {
	service := export.NewService(dependencies.Copier, dependencies.Logger)
	if dependencies.Now != nil {
		service.Now = dependencies.Now
	}
	return service
}

// createExportCommand returns the export subcommand.
func createExportCommand(dependencies Dependencies) *cobra.Command {
	var options treeOptions
	var naming namingOptions

	exportCommand := &cobra.Command{
		Use:     exportUse,
		Aliases: []string{exportAlias},
		Short:   exportShortDescription,
		Example: exportUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			request, err := resolveRequest(command, options, &naming, arguments)
			if err != nil {
				return err
			}
			result, exportErr := newExportService(dependencies).ToFile(request)
			if exportErr != nil {
				return reportOutcome(dependencies.Logger, exportErr)
			}
			_, writeErr := fmt.Fprintln(command.OutOrStdout(), result.Path)
			return writeErr
		},
	}
	addTreeFlags(exportCommand, &options)
	addNamingFlags(exportCommand, &naming)
	return exportCommand
}

// createCopyCommand returns the copy subcommand.
func createCopyCommand(dependencies Dependencies) *cobra.Command {
	var options treeOptions

	copyCommand := &cobra.Command{
		Use:     copyUse,
		Aliases: []string{copyAlias},
		Short:   copyShortDescription,
		Example: copyUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			request, err := resolveRequest(command, options, nil, arguments)
			if err != nil {
				return err
			}
			result, copyErr := newExportService(dependencies).ToClipboard(request)
			if copyErr != nil {
				return reportOutcome(dependencies.Logger, copyErr)
			}
			return writeDocument(command.OutOrStdout(), result.Document)
		},
	}
	addTreeFlags(copyCommand, &options)
	return copyCommand
}

// createPrintCommand returns the print subcommand.
func createPrintCommand(dependencies Dependencies) *cobra.Command {
	var options treeOptions

	printCommand := &cobra.Command{
		Use:     printUse,
		Aliases: []string{printAlias},
		Short:   printShortDescription,
		Example: printUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			request, err := resolveRequest(command, options, nil, arguments)
			if err != nil {
				return err
			}
			result, previewErr := newExportService(dependencies).Preview(request)
			if previewErr != nil {
				return reportOutcome(dependencies.Logger, previewErr)
			}
			return writeDocument(command.OutOrStdout(), result.Document)
		},
	}
	addTreeFlags(printCommand, &options)
	return printCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool
	var workspace string

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workspace,
			})
			if err != nil {
				return err
			}
			_, writeErr := fmt.Fprintf(command.OutOrStdout(), configurationWrittenText, path)
			return writeErr
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	initCommand.Flags().StringVar(&workspace, workspaceFlagName, "", workspaceFlagDescription)
	return initCommand
}

// reportOutcome logs empty results and existing targets as warnings; other errors pass through.
func reportOutcome(logger *zap.Logger, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrEmptyResult):
		logger.Warn(warningNoFilesMessage, zap.String(logFieldError, err.Error()))
		return nil
	case errors.Is(err, types.ErrFileExists):
		logger.Warn(warningFileExistsMessage, zap.String(logFieldError, err.Error()))
		return nil
	default:
		return err
	}
}

// writeDocument prints document followed by exactly one trailing newline.
func writeDocument(writer io.Writer, document string) error {
	if !strings.HasSuffix(document, "\n") {
		document += "\n"
	}
	_, err := io.WriteString(writer, document)
	return err
}
