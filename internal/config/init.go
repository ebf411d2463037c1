package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/tree-maker/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes .tree-maker.yaml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes config.yaml into ~/.tree-maker.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `output:
  # markdown, json, xml, yaml, csv, or txt
  format: markdown
  folder: tree-maker
  file_name: tree
  prefix: ""
  suffix: ""
  separator: "-"
search:
  include:
    - "**/*"
  exclude:
    - "**/build/**"
    - "**/dist/**"
    - "**/tmp/**"
    - "**/vendor/**"
    - "**/tree-maker/**"
  only_files: false
  disable_recursive: false
  max_depth: 5
  only_visible: true
  use_gitignore: true
`
)

var (
	// ErrConfigurationExists is returned when init would overwrite a file without Force.
	ErrConfigurationExists = errors.New("configuration file already exists")
	// ErrNoHomeDirectory is returned when the global target cannot be located.
	ErrNoHomeDirectory = errors.New("home directory unavailable")
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		destinationPath = GlobalConfigurationPath()
		if destinationPath == "" {
			return "", fmt.Errorf("resolve home directory for configuration: %w", ErrNoHomeDirectory)
		}
		configurationDirectory := filepath.Dir(destinationPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("%w at %s", ErrConfigurationExists, destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
