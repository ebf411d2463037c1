package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/tree-maker/internal/config"
	"github.com/temirov/tree-maker/internal/types"
	"github.com/temirov/tree-maker/internal/utils"
)

const exportTimestampDigits = "20240309140506789"

var commandInstant = time.Date(2024, time.March, 9, 14, 5, 6, 789*int(time.Millisecond), time.UTC)

type fakeCopier struct {
	copied []string
}

func (copier *fakeCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

// isolateHome points the global configuration lookup at an empty directory.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
}

func writeWorkspaceFiles(t *testing.T, workspace string, files map[string]string) {
	t.Helper()
	for relativePath, content := range files {
		absolutePath := filepath.Join(workspace, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
			t.Fatalf("create folder: %v", err)
		}
		if err := os.WriteFile(absolutePath, []byte(content), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
}

type commandHarness struct {
	copier *fakeCopier
	logs   *observer.ObservedLogs
	logger *zap.Logger
}

func newCommandHarness(t *testing.T) commandHarness {
	t.Helper()
	isolateHome(t)
	core, logs := observer.New(zapcore.DebugLevel)
	return commandHarness{copier: &fakeCopier{}, logs: logs, logger: zap.New(core)}
}

func (harness commandHarness) run(arguments ...string) (string, error) {
	rootCommand := NewRootCommand(Dependencies{
		Logger: harness.logger,
		Copier: harness.copier,
		Now:    func() time.Time { return commandInstant },
	})
	var output bytes.Buffer
	rootCommand.SetOut(&output)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	err := rootCommand.ExecuteContext(context.Background())
	return output.String(), err
}

func TestExportCommandWritesTimestampedFile(t *testing.T) {
	harness := newCommandHarness(t)
	workspace := t.TempDir()
	writeWorkspaceFiles(t, workspace, map[string]string{"a.txt": "a", "sub/c.txt": "c"})

	output, err := harness.run("export", "--workspace", workspace)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	expectedPath := filepath.Join(workspace, "tree-maker", exportTimestampDigits+"-tree.md")
	if strings.TrimSpace(output) != expectedPath {
		t.Fatalf("expected path %s, got %q", expectedPath, output)
	}
	content, readErr := os.ReadFile(expectedPath)
	if readErr != nil {
		t.Fatalf("read export: %v", readErr)
	}
	if !strings.HasPrefix(string(content), "```markdown\n") {
		t.Fatalf("expected fenced markdown, got %q", content)
	}

	if _, secondErr := harness.run("export", "--workspace", workspace); secondErr != nil {
		t.Fatalf("second export should only warn, got %v", secondErr)
	}
	if harness.logs.FilterMessage(warningFileExistsMessage).Len() != 1 {
		t.Fatalf("expected one %q warning", warningFileExistsMessage)
	}
}

func TestExportCommandAppliesNamingFlags(t *testing.T) {
	harness := newCommandHarness(t)
	workspace := t.TempDir()
	writeWorkspaceFiles(t, workspace, map[string]string{"a.txt": "a"})

	output, err := harness.run("e", "--workspace", workspace, "--format", "json", "--output-folder", "out",
		"--prefix", "pre-", "--file-name", "layout", "--suffix=-v1", "--separator", "_")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	expectedPath := filepath.Join(workspace, "out", "pre-"+exportTimestampDigits+"_layout-v1.json")
	if strings.TrimSpace(output) != expectedPath {
		t.Fatalf("expected path %s, got %q", expectedPath, output)
	}
	if _, statErr := os.Stat(expectedPath); statErr != nil {
		t.Fatalf("export missing: %v", statErr)
	}
}

func TestPrintCommandRendersFormats(t *testing.T) {
	harness := newCommandHarness(t)
	workspace := t.TempDir()
	writeWorkspaceFiles(t, workspace, map[string]string{
		"a.txt":         "a",
		"sub/c.txt":     "c",
		".env":          "secret",
		"build/out.bin": "bin",
	})

	testCases := []struct {
		name      string
		arguments []string
		expected  string
	}{
		{
			name:      "csv",
			arguments: []string{"print", "--workspace", workspace, "--format", "csv"},
			expected:  "a.txt,file\nsub,folder\nc.txt,file\n",
		},
		{
			name:      "hidden_entries",
			arguments: []string{"p", "--workspace", workspace, "--format", "txt", "--hidden", "yes"},
			expected:  "- .env\n- a.txt\n- [sub]\n- c.txt\n",
		},
		{
			name:      "extra_exclude",
			arguments: []string{"print", "--workspace", workspace, "--format", "txt", "-e", "**/sub/**"},
			expected:  "- a.txt\n",
		},
		{
			name:      "include_replaces_defaults",
			arguments: []string{"print", "--workspace", workspace, "--format", "txt", "-i", "**/c.txt"},
			expected:  "- c.txt\n",
		},
		{
			name:      "subfolder_argument",
			arguments: []string{"print", "--workspace", workspace, "--format", "txt", filepath.Join(workspace, "sub")},
			expected:  "- c.txt\n",
		},
		{
			name:      "not_recursive",
			arguments: []string{"print", "--workspace", workspace, "--format", "txt", "--recursive=false"},
			expected:  "- a.txt\n- [sub]\n",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			output, err := harness.run(testCase.arguments...)
			if err != nil {
				t.Fatalf("print failed: %v", err)
			}
			if output != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, output)
			}
		})
	}
}

func TestCopyCommandPublishesDocument(t *testing.T) {
	harness := newCommandHarness(t)
	workspace := t.TempDir()
	writeWorkspaceFiles(t, workspace, map[string]string{"a.txt": "a"})

	output, err := harness.run("copy", "--workspace", workspace, "--format", "csv")
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if len(harness.copier.copied) != 1 || harness.copier.copied[0] != "a.txt,file\n" {
		t.Fatalf("unexpected clipboard content: %+v", harness.copier.copied)
	}
	if output != "a.txt,file\n" {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestCommandsWarnOnEmptyFolder(t *testing.T) {
	harness := newCommandHarness(t)
	workspace := t.TempDir()

	for _, commandName := range []string{types.CommandExport, types.CommandCopy, types.CommandPrint} {
		if _, err := harness.run(commandName, "--workspace", workspace); err != nil {
			t.Fatalf("%s should only warn on an empty folder, got %v", commandName, err)
		}
	}
	if harness.logs.FilterMessage(warningNoFilesMessage).Len() != 3 {
		t.Fatalf("expected three %q warnings", warningNoFilesMessage)
	}
	if _, statErr := os.Stat(filepath.Join(workspace, "tree-maker")); !os.IsNotExist(statErr) {
		t.Fatalf("empty export must not create the output folder, stat error: %v", statErr)
	}
	if len(harness.copier.copied) != 0 {
		t.Fatalf("empty copy must not reach the clipboard")
	}
}

func TestCommandsRejectInvalidInput(t *testing.T) {
	harness := newCommandHarness(t)
	workspace := t.TempDir()
	writeWorkspaceFiles(t, workspace, map[string]string{"a.txt": "a"})

	testCases := []struct {
		name      string
		arguments []string
		expected  error
	}{
		{
			name:      "unknown_format",
			arguments: []string{"print", "--workspace", workspace, "--format", "pdf"},
			expected:  types.ErrUnsupportedFormat,
		},
		{
			name:      "root_outside_workspace",
			arguments: []string{"print", "--workspace", workspace, t.TempDir()},
			expected:  types.ErrInvalidRoot,
		},
		{
			name:      "zero_depth",
			arguments: []string{"export", "--workspace", workspace, "--depth", "0"},
			expected:  types.ErrInvalidFilter,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			_, err := harness.run(testCase.arguments...)
			if !errors.Is(err, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, err)
			}
		})
	}
}

func TestFlagsOverrideConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	workspace := t.TempDir()
	writeWorkspaceFiles(t, workspace, map[string]string{
		"a.txt":                   "a",
		"notes/n.md":              "n",
		utils.LocalConfigFileName: "output:\n  format: csv\nsearch:\n  include:\n    - \"**/*.md\"\n",
	})

	configured, err := harness.run("print", "--workspace", workspace)
	if err != nil {
		t.Fatalf("print failed: %v", err)
	}
	if configured != "n.md,file\n" {
		t.Fatalf("expected configured csv output, got %q", configured)
	}

	overridden, err := harness.run("print", "--workspace", workspace, "--format", "txt", "-i", "**/*.txt")
	if err != nil {
		t.Fatalf("print failed: %v", err)
	}
	if overridden != "- a.txt\n" {
		t.Fatalf("expected flags to replace configured format and include, got %q", overridden)
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	workspace := t.TempDir()

	output, err := harness.run("init", "--workspace", workspace)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	expectedPath := filepath.Join(workspace, utils.LocalConfigFileName)
	if !strings.Contains(output, expectedPath) {
		t.Fatalf("expected output to name %s, got %q", expectedPath, output)
	}
	if _, statErr := os.Stat(expectedPath); statErr != nil {
		t.Fatalf("configuration missing: %v", statErr)
	}

	if _, secondErr := harness.run("init", "--workspace", workspace); !errors.Is(secondErr, config.ErrConfigurationExists) {
		t.Fatalf("expected ErrConfigurationExists, got %v", secondErr)
	}
	if _, forcedErr := harness.run("init", "--workspace", workspace, "--force"); forcedErr != nil {
		t.Fatalf("forced init failed: %v", forcedErr)
	}
}
