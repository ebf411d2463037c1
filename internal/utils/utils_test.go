package utils_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/temirov/tree-maker/internal/utils"
)

func TestDeduplicatePatterns(t *testing.T) {
	input := []string{"**/dist/**", " ", "**/build/**", "**/dist/**", " **/tmp/** "}
	result := utils.DeduplicatePatterns(input)
	expected := []string{"**/dist/**", "**/build/**", "**/tmp/**"}
	if len(result) != len(expected) {
		t.Fatalf("expected %d patterns, got %d: %v", len(expected), len(result), result)
	}
	for index := range expected {
		if result[index] != expected[index] {
			t.Fatalf("pattern %d: expected %q, got %q", index, expected[index], result[index])
		}
	}
}

func TestPathDepth(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "workspace", "project")
	testCases := []struct {
		name     string
		path     string
		expected int
	}{
		{name: "direct child", path: filepath.Join(root, "a.txt"), expected: 1},
		{name: "nested child", path: filepath.Join(root, "sub", "c.txt"), expected: 2},
		{name: "deep child", path: filepath.Join(root, "a", "b", "c", "d"), expected: 4},
		{name: "root itself", path: root, expected: 0},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if depth := utils.PathDepth(testCase.path, root); depth != testCase.expected {
				t.Fatalf("expected depth %d, got %d", testCase.expected, depth)
			}
		})
	}
}

func TestIsHiddenPath(t *testing.T) {
	testCases := map[string]bool{
		".":                false,
		"":                 false,
		"a.txt":            false,
		".env":             true,
		".git/config":      true,
		"src/.cache/x.bin": true,
		"src/file.go":      false,
		"dir.with.dots/a":  false,
	}
	for relativePath, expected := range testCases {
		if actual := utils.IsHiddenPath(relativePath); actual != expected {
			t.Fatalf("IsHiddenPath(%q)=%t want %t", relativePath, actual, expected)
		}
	}
}

func TestIsWithin(t *testing.T) {
	parent := filepath.Join(string(filepath.Separator), "workspace")
	if !utils.IsWithin(filepath.Join(parent, "project"), parent) {
		t.Fatalf("expected child to be within parent")
	}
	if !utils.IsWithin(parent, parent) {
		t.Fatalf("expected parent to be within itself")
	}
	if utils.IsWithin(filepath.Join(string(filepath.Separator), "elsewhere"), parent) {
		t.Fatalf("expected sibling to be outside parent")
	}
	if utils.IsWithin(filepath.Join(string(filepath.Separator), "workspace-other"), parent) {
		t.Fatalf("expected prefix-sharing sibling to be outside parent")
	}
}

func TestFormatTimestampDigits(t *testing.T) {
	instant := time.Date(2024, time.January, 2, 3, 4, 5, 123000000, time.FixedZone("UTC+2", 2*60*60))
	digits := utils.FormatTimestampDigits(instant)
	if digits != "20240102010405123" {
		t.Fatalf("unexpected digits %q", digits)
	}
}

func TestRelativePathOrSelf(t *testing.T) {
	root := t.TempDir()
	if relative := utils.RelativePathOrSelf(root, root); relative != "." {
		t.Fatalf("expected '.', got %q", relative)
	}
	nested := filepath.Join(root, "sub", "c.txt")
	if relative := utils.RelativePathOrSelf(nested, root); relative != "sub/c.txt" {
		t.Fatalf("expected sub/c.txt, got %q", relative)
	}
}
