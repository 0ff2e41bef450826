package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildPyplagBinary builds cmd/pyplag into a temp dir
func buildPyplagBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "pyplag")

	// Build from the project root (one level up from e2e directory)
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pyplag")
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build pyplag binary: %v\n%s", err, out)
	}

	return binaryPath
}

func createTestPythonFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", filename, err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}
	return filePath
}

// createPairsFile writes one "<a> <b>" line per pair
func createPairsFile(t *testing.T, dir string, pairs [][2]string) string {
	t.Helper()

	var sb strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&sb, "%s %s\n", p[0], p[1])
	}
	path := filepath.Join(dir, "pairs.txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("Failed to create pairs file: %v", err)
	}
	return path
}

// createTestConfigFile writes a .pyplag.toml into testDir
func createTestConfigFile(t *testing.T, testDir, content string) {
	t.Helper()
	configFile := filepath.Join(testDir, ".pyplag.toml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
}
