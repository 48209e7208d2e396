package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/apriori/internal/store"
)

// minedDB mines the weather fixture into a fresh store under run ID id.
func minedDB(t *testing.T, id string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "results.db")
	_, err := executeMine(t, "text", "testdata/weather.arff",
		"--support", "0.5", "--confidence", "0.5", "--run-id", id,
		"--report", "none", "--db", dbPath)
	require.NoError(t, err)
	return dbPath
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestRuns_Text(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	out, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "run-a")
	assert.Contains(t, out, "weather")
	assert.Contains(t, out, "3/4")
}

func TestRuns_JSON(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	out, err := execute(t, NewRunsCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string             `json:"status"`
		Data   []store.RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-a", resp.Data[0].ID)
	assert.Equal(t, 2, resp.Data[0].Cycles)
}

func TestRuns_MissingDatabase(t *testing.T) {
	_, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}),
		"--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestShow_Weka(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	out, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "run-a", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run:          run-a")
	assert.Contains(t, out, " 1. Weather=Sunny ==> Activity=Hike    count:(2) conf:(0.67)")
}

func TestShow_Level(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	out, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "run-a", "--db", dbPath, "--level", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "L(2): 1 itemsets")
	assert.Contains(t, out, "Weather=Sunny ==> Activity=Hike")
	assert.Contains(t, out, "conf:(0.67)")
}

func TestShow_UnknownRun(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	_, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "run-b", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestShow_BadLevel(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	_, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "run-a", "--db", dbPath, "--level", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunsDelete(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	out, err := execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "delete", "run-a", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted run run-a")

	out, err = execute(t, NewRunsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found.")
}

func TestRunsDelete_UnknownRunJSON(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	out, err := execute(t, NewRunsCommand(&RootOptions{Format: "json"}), "delete", "run-b", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrRunNotFound)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "run run-b", resp.Error.Message)
}

func TestShow_UnknownRunJSON(t *testing.T) {
	dbPath := minedDB(t, "run-a")

	out, err := execute(t, NewShowCommand(&RootOptions{Format: "json"}), "run-b", "--db", dbPath)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}
