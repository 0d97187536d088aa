//go:build basic || database

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedFarmstatPath holds the path to a shared farmstat binary built once for all tests.
	sharedFarmstatPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// recordsCSV is relative to the project root, where commands run.
const recordsCSV = "integration/testdata/records.csv"

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getFarmstatBinary returns the path to the farmstat binary, building it once if needed.
func getFarmstatBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "farmstat-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		farmstatPath := filepath.Join(tempDir, "farmstat")
		buildCmd := exec.Command("go", "build", "-o", farmstatPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build farmstat: %v", err))
		}

		sharedFarmstatPath = farmstatPath
	})

	return sharedFarmstatPath
}

// runFarmstat runs the binary from the project root with extra environment and returns stdout.
func runFarmstat(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getFarmstatBinary(), args...)
	cmd.Dir = "../"
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
