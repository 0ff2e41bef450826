package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	zetaSource = `def zeta():
    """Return two."""
    return 2

def alpha():
    return 1
`
	alphaSource = `# reordered copy
def alpha():
    return 1

def zeta():
    return 2
`
	otherSource = `import os

print(os.getcwd())
`
)

// TestScoreE2EBasic scores a pairs list and checks the output file
func TestScoreE2EBasic(t *testing.T) {
	binaryPath := buildPyplagBinary(t)

	testDir := t.TempDir()
	zeta := createTestPythonFile(t, testDir, "zeta.py", zetaSource)
	alpha := createTestPythonFile(t, testDir, "alpha.py", alphaSource)
	other := createTestPythonFile(t, testDir, "other.py", otherSource)
	pairs := createPairsFile(t, testDir, [][2]string{{zeta, alpha}, {zeta, other}})
	output := filepath.Join(testDir, "scores.txt")

	cmd := exec.Command(binaryPath, "score", pairs, output)
	cmd.Dir = testDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Logf("Command stderr: %s", stderr.String())
		t.Fatalf("Command failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 score lines, got %d: %q", len(lines), data)
	}
	if lines[0] != "1.000" {
		t.Errorf("Reordered copy should score 1.000, got %s", lines[0])
	}
	if lines[1] == "1.000" || !strings.HasPrefix(lines[1], "0.") {
		t.Errorf("Unrelated files should score below 1, got %s", lines[1])
	}
	if stdout.Len() != 0 {
		t.Errorf("score should not write to stdout, got %q", stdout.String())
	}
}

// TestScoreE2EParseErrorExitCode checks the abort policy
func TestScoreE2EParseErrorExitCode(t *testing.T) {
	binaryPath := buildPyplagBinary(t)

	testDir := t.TempDir()
	zeta := createTestPythonFile(t, testDir, "zeta.py", zetaSource)
	broken := createTestPythonFile(t, testDir, "broken.py", "def broken(:\n    pass\n")
	pairs := createPairsFile(t, testDir, [][2]string{{zeta, broken}})
	output := filepath.Join(testDir, "scores.txt")

	cmd := exec.Command(binaryPath, "score", pairs, output)
	cmd.Dir = testDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		t.Fatal("Expected a non-zero exit code for an unparseable file")
	}
	if !strings.Contains(stderr.String(), "Error:") {
		t.Errorf("stderr should contain a categorized error, got %q", stderr.String())
	}
	data, readErr := os.ReadFile(output)
	if readErr != nil {
		t.Fatalf("Output file should be created before scoring: %v", readErr)
	}
	if len(data) != 0 {
		t.Errorf("Output file should be empty when the batch aborts, got %q", data)
	}
}

// TestScoreE2EConfigDiscovery checks that .pyplag.toml in the working
// directory is picked up
func TestScoreE2EConfigDiscovery(t *testing.T) {
	binaryPath := buildPyplagBinary(t)

	testDir := t.TempDir()
	zeta := createTestPythonFile(t, testDir, "zeta.py", zetaSource)
	broken := createTestPythonFile(t, testDir, "broken.py", "def broken(:\n    pass\n")
	pairs := createPairsFile(t, testDir, [][2]string{{zeta, broken}, {zeta, zeta}})
	output := filepath.Join(testDir, "scores.txt")

	createTestConfigFile(t, testDir, "[scoring]\nprecision = 2\n\n[batch]\non_error = \"sentinel\"\n")

	cmd := exec.Command(binaryPath, "score", pairs, output)
	cmd.Dir = testDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Logf("Command stderr: %s", stderr.String())
		t.Fatalf("Command failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if string(data) != "-1.00\n1.00\n" {
		t.Errorf("Unexpected output %q", data)
	}
}
