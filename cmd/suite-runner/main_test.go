package main

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/models"
	"serverest-suite/internal/scenarios"
	"serverest-suite/pkg/registry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEnvCommand(t *testing.T) {
	cfgPath := writeConfig(t, "logging:\n  level: warn\n")

	tests := []struct {
		name    string
		envVar  string
		args    []string
		wantEnv string
		wantURL string
	}{
		{name: "flag dev", args: []string{"--env", "dev"}, wantEnv: "dev", wantURL: "http://localhost:3000"},
		{name: "flag prod", args: []string{"--env", "prod"}, wantEnv: "prod", wantURL: "https://serverest.dev"},
		{name: "ENV variable", envVar: "dev", wantEnv: "dev", wantURL: "http://localhost:3000"},
		{name: "flag wins over ENV", envVar: "dev", args: []string{"--env", "staging"}, wantEnv: "staging", wantURL: "https://serverest.dev"},
		{name: "case sensitive", args: []string{"--env", "DEV"}, wantEnv: "DEV", wantURL: "https://serverest.dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", tt.envVar)
			out, err := execute(t, append([]string{"env", "--config", cfgPath}, tt.args...)...)
			require.NoError(t, err)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.wantEnv, got["env"])
			assert.Equal(t, tt.wantURL, got["baseUrl"])
			assert.Equal(t, float64(10000), got["timeout"])
		})
	}
}

func TestListCommand(t *testing.T) {
	cfgPath := writeConfig(t, "runner:\n  tags: [\"@smoke\"]\n")
	t.Setenv("ENV", "")

	out, err := execute(t, "list", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "users.ct01")
	assert.NotContains(t, out, "login.ct01 ")
	want := len(registry.Select(scenarios.All(), registry.ParseTags("@smoke"), nil))
	assert.Contains(t, out, fmt.Sprintf("%d scenarios selected", want))

	out, err = execute(t, "list", "--config", cfgPath, "--tags", "@auth")
	require.NoError(t, err)
	assert.Contains(t, out, "login.ct01")
	assert.NotContains(t, out, "users.ct01")
}

func TestCatalogCommand_PreservesOverrides(t *testing.T) {
	cfgPath := writeConfig(t, "logging:\n  level: info\n")
	out := filepath.Join(t.TempDir(), "catalog.json")

	off := false
	prev := &registry.Catalog{Scenarios: []registry.Entry{{ID: "carts.ct01", Enabled: &off, Timeout: "2m"}}}
	require.NoError(t, prev.Save(out))

	stdout, err := execute(t, "catalog", "--config", cfgPath, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote")

	cat, err := registry.LoadCatalog(out)
	require.NoError(t, err)
	assert.Len(t, cat.Scenarios, len(scenarios.All()))
	entry, ok := cat.Lookup("carts.ct01")
	require.True(t, ok)
	assert.False(t, entry.IsEnabled())
	assert.Equal(t, 2*time.Minute, entry.TimeoutDuration())
}

func TestCatalogCommand_RequiresPath(t *testing.T) {
	cfgPath := writeConfig(t, "logging:\n  level: info\n")
	_, err := execute(t, "catalog", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog path")
}

func TestRunCommand_RejectsBadParallelism(t *testing.T) {
	cfgPath := writeConfig(t, "logging:\n  level: info\n")
	_, err := execute(t, "run", "--config", cfgPath, "--parallel", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--parallel")
}

func TestRetryWithBackoff(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return stderrors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, logger.NewTestLogger(t), "op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	boom := stderrors.New("down")
	err = retryWithBackoff(context.Background(), func() error { return boom }, 2, time.Millisecond, logger.NewNoOpLogger(), "op")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "op failed after 2 attempts")
}

func TestPrintSummary(t *testing.T) {
	start := time.Now()
	var buf bytes.Buffer
	printSummary(&buf, &models.RunSummary{
		RunID: "run-9", BaseURL: "http://localhost:3000", Started: start, Finished: start.Add(time.Second),
		Passed: 1, Failed: 1,
		Results: []models.ScenarioResult{
			{ID: "login.ct01", Suite: "login", Name: "ok", Status: models.StatusPassed},
			{ID: "login.ct02", Suite: "login", Name: "bad", Status: models.StatusFailed, ErrorCode: "ASSERTION_FAILED", Message: "line1\nline2"},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "FAIL login.ct02 bad [ASSERTION_FAILED]")
	assert.Contains(t, out, "line1 line2")
	assert.Contains(t, out, "1 passed, 1 failed, 0 skipped")
}
