// Package integration provides CLI integration tests for yardstick.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/govalues/decimal"
)

var (
	// yardstickBin is the path to the built yardstick binary.
	yardstickBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetYardstickBin sets the path to the yardstick binary (called from TestMain).
func SetYardstickBin(path string) {
	yardstickBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data
// directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build yardstick: %v", buildErr)
	}
	if yardstickBin == "" {
		t.Fatal("yardstick binary not built (yardstickBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	// Create config directory and write config.yaml.
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "system: si\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a yardstick command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunYardstick executes the yardstick CLI against the environment's config
// and data directories. Returns stdout, stderr, and exit code.
func (e *TestEnv) RunYardstick(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	return e.run(allArgs)
}

// RunWithoutDataFlag executes the yardstick CLI with only --config-dir, so
// the data directory resolves through config.yaml or the environment.
func (e *TestEnv) RunWithoutDataFlag(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config}, args...)
	return e.run(allArgs)
}

func (e *TestEnv) run(args []string) CmdResult {
	e.t.Helper()

	cmd := exec.Command(yardstickBin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run yardstick: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunYardstick executes the yardstick CLI and fails the test if it
// returns non-zero.
func (e *TestEnv) MustRunYardstick(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunYardstick(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("yardstick %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// UnitRow mirrors one entry of list --json.
type UnitRow struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Dimension string `json:"dimension"`
	Ratio     string `json:"ratio"`
}

// FactorRow mirrors one entry of factors --json.
type FactorRow struct {
	Quotient string `json:"quotient"`
	Value    string `json:"value"`
	Unit     string `json:"unit"`
}

// ConvertResult mirrors convert --json output.
type ConvertResult struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// EqualDecimal reports whether two decimal strings hold the same numeric
// value. Converted values may carry trailing zeros from exact decimal
// arithmetic, so tests compare numerically rather than textually.
func EqualDecimal(t *testing.T, want, got string) bool {
	t.Helper()
	w, err := decimal.Parse(want)
	if err != nil {
		t.Fatalf("bad expected decimal %q: %v", want, err)
	}
	g, err := decimal.Parse(got)
	if err != nil {
		t.Fatalf("bad actual decimal %q: %v", got, err)
	}
	return w.Cmp(g) == 0
}
