package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

type result struct {
	code           int
	stdout, stderr string
}

// isolate points config lookup at an empty directory and clears TADA_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, name := range []string{"TADA_BACKEND", "TADA_DATA", "TADA_THEME", "TADA_LOG_FILE", "TADA_LOG_LEVEL", "TADA_ALT_SCREEN"} {
		t.Setenv(name, "")
	}
	return dir
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"--no-color"}, args...), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func storedTodos(t *testing.T, path string) []model.Todo {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var kv map[string]string
	require.NoError(t, json.Unmarshal(data, &kv))
	var todos []model.Todo
	require.NoError(t, json.Unmarshal([]byte(kv[store.Key]), &todos))
	return todos
}

func TestAddListToggleRemove(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "ls.json")

	r := runCLI(t, "--data", data, "add", "Buy", "milk")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added")

	r = runCLI(t, "--data", data, "add", "Walk the dog")
	require.Equal(t, 0, r.code, r.stderr)

	todos := storedTodos(t, data)
	require.Len(t, todos, 2)
	assert.Equal(t, "Walk the dog", todos[0].Title)
	assert.Equal(t, "Buy milk", todos[1].Title)

	r = runCLI(t, "--data", data, "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, " 1. ☐ Walk the dog")
	assert.Contains(t, r.stdout, " 2. ☐ Buy milk")

	r = runCLI(t, "--data", data, "done", "2")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "toggled: Buy milk")
	assert.True(t, storedTodos(t, data)[1].Done)

	r = runCLI(t, "--data", data, "ls", "--filter", "done")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, " 2. ☑ Buy milk")
	assert.NotContains(t, r.stdout, "Walk the dog")

	id := storedTodos(t, data)[0].ID
	r = runCLI(t, "--data", data, "rm", id[:8])
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed: Walk the dog")

	todos = storedTodos(t, data)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
}

func TestBlankAddIsNoop(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "ls.json")

	r := runCLI(t, "--data", data, "add", "   ")
	assert.Equal(t, 0, r.code)
	assert.Empty(t, r.stdout)
	assert.NoFileExists(t, data)
}

func TestSampleToggleAllClear(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "ls.json")

	require.Equal(t, 0, runCLI(t, "--data", data, "sample").code)
	require.Len(t, storedTodos(t, data), 3)

	r := runCLI(t, "--data", data, "all")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "marked all done")
	done, _ := model.Count(storedTodos(t, data))
	assert.Equal(t, 3, done)

	r = runCLI(t, "--data", data, "ls", "--filter", "active")
	assert.Contains(t, r.stdout, "No tasks match the current filter.")

	require.Equal(t, 0, runCLI(t, "--data", data, "toggle", "1").code)
	r = runCLI(t, "--data", data, "clear")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "cleared 2 completed")

	todos := storedTodos(t, data)
	require.Len(t, todos, 1)
	assert.False(t, todos[0].Done)
}

func TestListEmptyAndGrouped(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "ls.json")

	r := runCLI(t, "--data", data, "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "No tasks yet. Add your first one!")

	runCLI(t, "--data", data, "add", "one")
	runCLI(t, "--data", data, "add", "two")
	runCLI(t, "--data", data, "toggle", "1")

	r = runCLI(t, "--data", data, "ls", "--group")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Regexp(t, `(?s)Pending.*2\. ☐ one.*Done.*1\. ☑ two`, r.stdout)
}

func TestUsageErrors(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "ls.json")
	runCLI(t, "--data", data, "add", "only")

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"index out of range", []string{"toggle", "5"}, "index out of range: have 1, got 5"},
		{"zero index", []string{"rm", "0"}, "index out of range"},
		{"unknown id", []string{"rm", "zzz"}, `no task with id "zzz"`},
		{"missing arg", []string{"toggle"}, "accepts 1 arg"},
		{"extra arg", []string{"ls", "x"}, "unknown command"},
		{"bad filter", []string{"ls", "--filter", "later"}, `unknown filter "later"`},
		{"unknown flag", []string{"ls", "--nope"}, "unknown flag"},
		{"bad backend", []string{"--backend", "redis", "ls"}, `unknown storage backend "redis"`},
		{"bad theme", []string{"--theme", "pink", "ls"}, `unknown theme "pink"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runCLI(t, append([]string{"--data", data}, tt.args...)...)
			assert.Equal(t, 2, r.code, r.stderr)
			assert.Contains(t, r.stderr, tt.msg)
		})
	}
	assert.Len(t, storedTodos(t, data), 1)
}

func TestSaveFailureExitsOne(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "ls.json")
	require.NoError(t, os.Mkdir(data, 0o755))

	r := runCLI(t, "--data", data, "add", "x")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "save:")
}

func TestSQLiteBackend(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "ls.db")

	require.Equal(t, 0, runCLI(t, "--backend", "sqlite", "--data", data, "add", "persisted").code)
	r := runCLI(t, "--backend", "sqlite", "--data", data, "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "persisted")
}

func TestMemoryBackendForgets(t *testing.T) {
	isolate(t)
	require.Equal(t, 0, runCLI(t, "--backend", "memory", "add", "gone").code)
	r := runCLI(t, "--backend", "memory", "ls")
	assert.Contains(t, r.stdout, "No tasks yet.")
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "tada.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[ui]\ntheme = \"neon\"\n[storage]\nbackend = \"sqlite\"\n"), 0o644))
	t.Setenv("TADA_LOG_LEVEL", "debug")

	r := runCLI(t, "--config", cfgPath, "config")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, `theme = "neon"`)
	assert.Contains(t, r.stdout, `backend = "sqlite"`)
	assert.Contains(t, r.stdout, `level = "debug"`)

	r = runCLI(t, "--config", cfgPath, "--backend", "json", "config")
	assert.Contains(t, r.stdout, `backend = "json"`)
}

func TestLogFile(t *testing.T) {
	dir := isolate(t)
	logPath := filepath.Join(dir, "tada.log")
	r := runCLI(t, "--backend", "memory", "--log-file", logPath, "-v", "add", "logged")
	require.Equal(t, 0, r.code, r.stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"storage opened"`)
}

func TestResolveRef(t *testing.T) {
	todos := []model.Todo{
		{ID: "abc123", Title: "one"},
		{ID: "abd456", Title: "two"},
		{ID: "xyz789", Title: "three"},
	}
	tests := []struct {
		ref   string
		want  string
		fails bool
	}{
		{ref: "1", want: "abc123"},
		{ref: "3", want: "xyz789"},
		{ref: "4", fails: true},
		{ref: "-1", fails: true},
		{ref: "abd456", want: "abd456"},
		{ref: "x", want: "xyz789"},
		{ref: " abc ", want: "abc123"},
		{ref: "ab", fails: true},
		{ref: "nope", fails: true},
		{ref: "", fails: true},
	}
	for _, tt := range tests {
		got, err := resolveRef(todos, tt.ref)
		if tt.fails {
			var exitErr *exitError
			if assert.ErrorAs(t, err, &exitErr, "ref %q", tt.ref) {
				assert.Equal(t, 2, exitErr.ExitCode())
			}
			continue
		}
		require.NoError(t, err, "ref %q", tt.ref)
		assert.Equal(t, tt.want, got.ID, "ref %q", tt.ref)
	}
}
