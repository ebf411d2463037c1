package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/temirov/tree-maker/internal/config"
	"github.com/temirov/tree-maker/internal/export"
	"github.com/temirov/tree-maker/internal/types"
)

const (
	workspaceFlagName    = "workspace"
	configFlagName       = "config"
	formatFlagName       = "format"
	includeFlagName      = "include"
	includeShorthand     = "i"
	excludeFlagName      = "exclude"
	excludeShorthand     = "e"
	onlyFilesFlagName    = "only-files"
	recursiveFlagName    = "recursive"
	depthFlagName        = "depth"
	hiddenFlagName       = "hidden"
	gitignoreFlagName    = "gitignore"
	outputFolderFlagName = "output-folder"
	fileNameFlagName     = "file-name"
	prefixFlagName       = "prefix"
	suffixFlagName       = "suffix"
	separatorFlagName    = "separator"

	workspaceFlagDescription    = "workspace folder bounding the tree and receiving exports (default: current directory)"
	configFlagDescription       = "configuration file used instead of ./.tree-maker.yaml"
	formatFlagDescription       = "output format: markdown, json, xml, yaml, csv, or txt"
	includeFlagDescription      = "include glob pattern, replaces the configured includes"
	excludeFlagDescription      = "exclude glob pattern, added to the configured excludes"
	onlyFilesFlagDescription    = "list files only"
	recursiveFlagDescription    = "descend into subdirectories"
	depthFlagDescription        = "maximum depth when recursive"
	hiddenFlagDescription       = "include entries whose name starts with a dot"
	gitignoreFlagDescription    = "drop entries matched by the root .gitignore"
	outputFolderFlagDescription = "workspace relative folder receiving exports"
	fileNameFlagDescription     = "name component of the export file"
	prefixFlagDescription       = "text placed before the timestamp"
	suffixFlagDescription       = "text placed after the name component"
	separatorFlagDescription    = "text placed between the timestamp and the name component"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorLoadConfigFormat       = "load configuration: %w"
)

// treeOptions stores the discovery and format flags shared by export, copy, and print.
type treeOptions struct {
	workspace        string
	configPath       string
	format           string
	includePatterns  []string
	excludePatterns  []string
	onlyFiles        bool
	recursive        bool
	maxDepth         int
	includeHidden    bool
	respectGitignore bool
}

// namingOptions stores the export file name flags.
type namingOptions struct {
	outputFolder string
	fileName     string
	prefix       string
	suffix       string
	separator    string
}

// addTreeFlags registers discovery and format flags on the command.
func addTreeFlags(command *cobra.Command, options *treeOptions) {
	flags := command.Flags()
	flags.StringVar(&options.workspace, workspaceFlagName, "", workspaceFlagDescription)
	flags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flags.StringVar(&options.format, formatFlagName, string(types.FormatMarkdown), formatFlagDescription)
	flags.StringArrayVarP(&options.includePatterns, includeFlagName, includeShorthand, nil, includeFlagDescription)
	flags.StringArrayVarP(&options.excludePatterns, excludeFlagName, excludeShorthand, nil, excludeFlagDescription)
	registerBooleanFlag(flags, &options.onlyFiles, onlyFilesFlagName, false, onlyFilesFlagDescription)
	registerBooleanFlag(flags, &options.recursive, recursiveFlagName, true, recursiveFlagDescription)
	flags.IntVar(&options.maxDepth, depthFlagName, types.DefaultMaxDepth, depthFlagDescription)
	registerBooleanFlag(flags, &options.includeHidden, hiddenFlagName, false, hiddenFlagDescription)
	registerBooleanFlag(flags, &options.respectGitignore, gitignoreFlagName, true, gitignoreFlagDescription)
}

// addNamingFlags registers export file name flags on the command.
func addNamingFlags(command *cobra.Command, options *namingOptions) {
	flags := command.Flags()
	flags.StringVar(&options.outputFolder, outputFolderFlagName, export.DefaultOutputFolder, outputFolderFlagDescription)
	flags.StringVar(&options.fileName, fileNameFlagName, export.DefaultFileName, fileNameFlagDescription)
	flags.StringVar(&options.prefix, prefixFlagName, "", prefixFlagDescription)
	flags.StringVar(&options.suffix, suffixFlagName, "", suffixFlagDescription)
	flags.StringVar(&options.separator, separatorFlagName, export.DefaultSeparator, separatorFlagDescription)
}

// resolveRequest layers explicitly set flags over the loaded configuration.
// naming may be nil for commands that do not write files.
func resolveRequest(command *cobra.Command, options treeOptions, naming *namingOptions, arguments []string) (export.Request, error) {
	workspace, err := resolveWorkspace(options.workspace)
	if err != nil {
		return export.Request{}, err
	}
	resolved, err := loadResolvedConfiguration(workspace, options.configPath)
	if err != nil {
		return export.Request{}, err
	}

	flags := command.Flags()
	if flags.Changed(formatFlagName) {
		format, parseErr := types.ParseFormat(options.format)
		if parseErr != nil {
			return export.Request{}, parseErr
		}
		resolved.Format = format
	}
	filter := &resolved.Filter
	if flags.Changed(includeFlagName) {
		filter.IncludePatterns = append([]string{}, options.includePatterns...)
	}
	if flags.Changed(excludeFlagName) {
		filter.ExcludePatterns = append(filter.ExcludePatterns, options.excludePatterns...)
	}
	if flags.Changed(onlyFilesFlagName) {
		filter.OnlyFiles = options.onlyFiles
	}
	if flags.Changed(recursiveFlagName) {
		filter.Recursive = options.recursive
	}
	if flags.Changed(depthFlagName) {
		filter.MaxDepth = options.maxDepth
	}
	if flags.Changed(hiddenFlagName) {
		filter.IncludeHidden = options.includeHidden
	}
	if flags.Changed(gitignoreFlagName) {
		filter.RespectGitignore = options.respectGitignore
	}

	if naming != nil {
		applyNamingFlags(command, *naming, &resolved)
	}

	root := ""
	if len(arguments) > 0 {
		absoluteRoot, absErr := filepath.Abs(arguments[0])
		if absErr != nil {
			return export.Request{}, fmt.Errorf(errorAbsolutePathFormat, arguments[0], absErr)
		}
		root = absoluteRoot
	}

	return export.Request{
		Workspace:    workspace,
		Root:         root,
		Filter:       resolved.Filter,
		Format:       resolved.Format,
		Naming:       resolved.Naming,
		OutputFolder: resolved.OutputFolder,
	}, nil
}

func applyNamingFlags(command *cobra.Command, naming namingOptions, resolved *config.ResolvedConfiguration) {
	flags := command.Flags()
	if flags.Changed(outputFolderFlagName) {
		resolved.OutputFolder = naming.outputFolder
	}
	if flags.Changed(fileNameFlagName) {
		resolved.Naming.Name = naming.fileName
	}
	if flags.Changed(prefixFlagName) {
		resolved.Naming.Prefix = naming.prefix
	}
	if flags.Changed(suffixFlagName) {
		resolved.Naming.Suffix = naming.suffix
	}
	if flags.Changed(separatorFlagName) {
		resolved.Naming.Separator = naming.separator
	}
}

func resolveWorkspace(workspace string) (string, error) {
	if workspace == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		return workingDirectory, nil
	}
	absoluteWorkspace, err := filepath.Abs(workspace)
	if err != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, workspace, err)
	}
	return absoluteWorkspace, nil
}

func loadResolvedConfiguration(workspace string, configPath string) (config.ResolvedConfiguration, error) {
	if configPath != "" {
		absoluteConfigPath, absErr := filepath.Abs(configPath)
		if absErr != nil {
			return config.ResolvedConfiguration{}, fmt.Errorf(errorAbsolutePathFormat, configPath, absErr)
		}
		configPath = absoluteConfigPath
	}
	loaded, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workspace,
		ExplicitFilePath: configPath,
	})
	if err != nil {
		return config.ResolvedConfiguration{}, fmt.Errorf(errorLoadConfigFormat, err)
	}
	resolved, err := loaded.Resolve()
	if err != nil {
		return config.ResolvedConfiguration{}, fmt.Errorf(errorLoadConfigFormat, err)
	}
	return resolved, nil
}
