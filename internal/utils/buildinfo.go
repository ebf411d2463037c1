package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	gitDescribeCommand = "describe"
)

// GetApplicationVersion returns the module version stamped into the binary, falling back to
// `git describe` when running from a source checkout.
func GetApplicationVersion() string {
	if version, found := versionFromBuildInfo(); found {
		return version
	}
	if version, found := versionFromGit("."); found {
		return version
	}
	return unknownVersion
}

func versionFromBuildInfo() (string, bool) {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return "", false
	}
	version := buildInfo.Main.Version
	if version == "" || version == develBuildVersion {
		return "", false
	}
	return version, true
}

func versionFromGit(startDirectory string) (string, bool) {
	repositoryDirectory, lookupError := findGitDirectory(startDirectory)
	if lookupError != nil {
		return "", false
	}
	describeArguments := [][]string{
		{gitDescribeCommand, "--tags", "--exact-match"},
		{gitDescribeCommand, "--tags", "--long", "--dirty"},
	}
	for _, arguments := range describeArguments {
		// #nosec G204
		describe := exec.Command(gitExecutableName, arguments...)
		describe.Dir = repositoryDirectory
		describeOutput, describeError := describe.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput)), true
		}
	}
	return "", false
}

// findGitDirectory walks upward from startDirectory to the first directory containing .git.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, errorAbsolute := filepath.Abs(startDirectory)
	if errorAbsolute != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, errorAbsolute)
	}

	for currentDirectory := absoluteStartDirectory; ; {
		fileInformation, errorStat := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if errorStat == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return "", fmt.Errorf("%s directory not found in or above %s", GitDirectoryName, absoluteStartDirectory)
}
