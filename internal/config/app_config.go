// Package config loads tree-maker settings from the global and per-project YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/tree-maker/internal/export"
	"github.com/temirov/tree-maker/internal/types"
	"github.com/temirov/tree-maker/internal/utils"
)

// DefaultExcludePatterns are applied when no exclude list is configured.
var DefaultExcludePatterns = []string{
	"**/build/**",
	"**/dist/**",
	"**/tmp/**",
	"**/vendor/**",
	"**/" + export.DefaultOutputFolder + "/**",
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration is the merged content of the configuration files.
// Nil pointers and empty strings mean the key was not set.
type ApplicationConfiguration struct {
	Output OutputConfiguration `mapstructure:"output"`
	Search SearchConfiguration `mapstructure:"search"`
}

// OutputConfiguration controls the rendered format and the export file name.
type OutputConfiguration struct {
	Format    string  `mapstructure:"format"`
	Folder    string  `mapstructure:"folder"`
	FileName  string  `mapstructure:"file_name"`
	Prefix    *string `mapstructure:"prefix"`
	Suffix    *string `mapstructure:"suffix"`
	Separator *string `mapstructure:"separator"`
}

// SearchConfiguration controls discovery.
type SearchConfiguration struct {
	Include          []string `mapstructure:"include"`
	Exclude          []string `mapstructure:"exclude"`
	OnlyFiles        *bool    `mapstructure:"only_files"`
	DisableRecursive *bool    `mapstructure:"disable_recursive"`
	MaxDepth         *int     `mapstructure:"max_depth"`
	OnlyVisible      *bool    `mapstructure:"only_visible"`
	UseGitignore     *bool    `mapstructure:"use_gitignore"`
}

// ResolvedConfiguration is the configuration with every default applied.
type ResolvedConfiguration struct {
	Filter       types.FilterConfig
	Format       types.Format
	Naming       export.NameOptions
	OutputFolder string
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath := GlobalConfigurationPath(); globalPath != "" {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	return merged.Merge(localConfig), nil
}

// GlobalConfigurationPath returns ~/.tree-maker/config.yaml, or "" without a home directory.
func GlobalConfigurationPath() string {
	homeDirectory, err := os.UserHomeDir()
	if err != nil || homeDirectory == "" {
		return ""
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Output = result.Output.merge(override.Output)
	result.Search = result.Search.merge(override.Search)
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Folder != "" {
		result.Folder = override.Folder
	}
	if override.FileName != "" {
		result.FileName = override.FileName
	}
	if override.Prefix != nil {
		result.Prefix = cloneString(override.Prefix)
	}
	if override.Suffix != nil {
		result.Suffix = cloneString(override.Suffix)
	}
	if override.Separator != nil {
		result.Separator = cloneString(override.Separator)
	}
	return result
}

func (config SearchConfiguration) merge(override SearchConfiguration) SearchConfiguration {
	result := config
	if override.Include != nil {
		result.Include = append([]string{}, override.Include...)
	}
	if override.Exclude != nil {
		result.Exclude = append([]string{}, override.Exclude...)
	}
	if override.OnlyFiles != nil {
		result.OnlyFiles = cloneBool(override.OnlyFiles)
	}
	if override.DisableRecursive != nil {
		result.DisableRecursive = cloneBool(override.DisableRecursive)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.OnlyVisible != nil {
		result.OnlyVisible = cloneBool(override.OnlyVisible)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	return result
}

// Resolve applies defaults to every unset key and validates the format.
func (config ApplicationConfiguration) Resolve() (ResolvedConfiguration, error) {
	format := types.FormatMarkdown
	if config.Output.Format != "" {
		parsed, err := types.ParseFormat(config.Output.Format)
		if err != nil {
			return ResolvedConfiguration{}, fmt.Errorf("output.format: %w", err)
		}
		format = parsed
	}

	naming := export.DefaultNameOptions()
	if config.Output.FileName != "" {
		naming.Name = config.Output.FileName
	}
	naming.Prefix = valueOr(config.Output.Prefix, naming.Prefix)
	naming.Suffix = valueOr(config.Output.Suffix, naming.Suffix)
	naming.Separator = valueOr(config.Output.Separator, naming.Separator)

	outputFolder := export.DefaultOutputFolder
	if config.Output.Folder != "" {
		outputFolder = config.Output.Folder
	}

	filter := types.DefaultFilterConfig()
	if config.Search.Include != nil {
		filter.IncludePatterns = utils.DeduplicatePatterns(config.Search.Include)
	}
	filter.ExcludePatterns = append([]string{}, DefaultExcludePatterns...)
	if config.Search.Exclude != nil {
		filter.ExcludePatterns = utils.DeduplicatePatterns(config.Search.Exclude)
	}
	filter.OnlyFiles = valueOr(config.Search.OnlyFiles, filter.OnlyFiles)
	filter.Recursive = !valueOr(config.Search.DisableRecursive, !filter.Recursive)
	filter.MaxDepth = valueOr(config.Search.MaxDepth, filter.MaxDepth)
	filter.IncludeHidden = !valueOr(config.Search.OnlyVisible, !filter.IncludeHidden)
	filter.RespectGitignore = valueOr(config.Search.UseGitignore, filter.RespectGitignore)
	if filter.Recursive && filter.MaxDepth < 1 {
		return ResolvedConfiguration{}, fmt.Errorf("search.max_depth: %w: must be at least 1, got %d", types.ErrInvalidFilter, filter.MaxDepth)
	}

	return ResolvedConfiguration{
		Filter:       filter,
		Format:       format,
		Naming:       naming,
		OutputFolder: outputFolder,
	}, nil
}

func valueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
