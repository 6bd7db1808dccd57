package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"my/internal/config"
	"my/internal/core"
	applog "my/internal/log"
	"my/internal/runner"
)

type fakeRunner struct {
	calls []runner.Spec
}

func (f *fakeRunner) LookPath(name string) (string, error) { return name, nil }

func (f *fakeRunner) Run(_ context.Context, spec runner.Spec) (int, error) {
	f.calls = append(f.calls, spec)
	return 0, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	volume := t.TempDir()
	return &config.Config{
		LogLevel:          "info",
		LogFormat:         "text",
		ServePort:         "8080",
		HighlightBin:      "highlight",
		HighlightStyle:    "github",
		HighlightFont:     "Inconsolata",
		HighlightFontSize: 24,
		ClipboardPaste:    "pbpaste",
		ClipboardCopy:     "pbcopy",
		BackupVolume:      volume,
		BackupDest:        filepath.Join(volume, "Backup") + "/",
		BackupSources:     []string{"/src/a", "/src/b"},
		RsyncBin:          "rsync",
		ExpensesFormat:    "text",
		ExpensesDelimiter: ",",
	}
}

func run(t *testing.T, cfg *config.Config, r runner.Runner, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(Deps{
		Config: cfg,
		Logger: applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)}),
		Runner: r,
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExpensesText(t *testing.T) {
	a := writeCSV(t, "a.csv", "Timestamp,Amount,Category\n2023-01-05,100.00,Hotel\n2023-01-20,50.00,Business Meals\n")
	b := writeCSV(t, "b.csv", "Timestamp,Amount,Category\n2023-03-01,20.25,Train\n")

	out, err := run(t, testConfig(t), &fakeRunner{}, "expenses", a, b)
	require.NoError(t, err)
	assert.Equal(t, `{
  "January": {
    "food": 50,
    "travel": 100
  },
  "March": {
    "public transit": 20.25
  }
}
$170.25
`, out)
}

func TestExpensesJSONByYear(t *testing.T) {
	a := writeCSV(t, "a.csv", "Timestamp,Amount,Category\n2023-01-05,10,Hotel\n2024-01-05,5,Hotel\n")

	out, err := run(t, testConfig(t), &fakeRunner{}, "expenses", "--format", "json", "--by-year", a)
	require.NoError(t, err)

	var doc struct {
		Months         map[string]map[string]float64 `json:"months"`
		TotalFormatted string                        `json:"total_formatted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 10.0, doc.Months["January 2023"]["travel"])
	assert.Equal(t, 5.0, doc.Months["January 2024"]["travel"])
	assert.Equal(t, "$15.00", doc.TotalFormatted)
}

func TestExpensesCustomCategories(t *testing.T) {
	a := writeCSV(t, "a.csv", "Timestamp,Amount,Category\n2023-02-05,7,Gym\n")
	mapping := writeCSV(t, "categories.yaml", "groups:\n  health: [Gym]\n")

	out, err := run(t, testConfig(t), &fakeRunner{}, "expenses", "--categories", mapping, a)
	require.NoError(t, err)
	assert.Contains(t, out, `"health": 7`)
}

func TestExpensesErrors(t *testing.T) {
	unknown := writeCSV(t, "u.csv", "Timestamp,Amount,Category\n2023-02-05,7,Unknown\n")

	_, err := run(t, testConfig(t), &fakeRunner{}, "expenses")
	assert.ErrorIs(t, err, core.ErrNoInputFiles)

	out, err := run(t, testConfig(t), &fakeRunner{}, "expenses", unknown)
	var uce *core.UnknownCategoryError
	require.ErrorAs(t, err, &uce)
	assert.Empty(t, out)

	_, err = run(t, testConfig(t), &fakeRunner{}, "expenses", "--format", "xml", unknown)
	assert.ErrorContains(t, err, `invalid format "xml"`)

	_, err = run(t, testConfig(t), &fakeRunner{}, "expenses", filepath.Join(t.TempDir(), "missing.csv"))
	var fae *core.FileAccessError
	assert.ErrorAs(t, err, &fae)
}

func TestExpensesFailureIsOneStderrLine(t *testing.T) {
	unknown := writeCSV(t, "u.csv", "Timestamp,Amount,Category\n2023-02-05,7,Unknown\n")

	var stdout, stderr bytes.Buffer
	root := NewRootCommand(Deps{
		Config: testConfig(t),
		Logger: applog.New(applog.Config{Level: slog.LevelInfo, Output: &stderr}),
		Runner: &fakeRunner{},
	})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"expenses", unknown})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	PrintError(&stderr, err)

	assert.Empty(t, stdout.String())
	assert.Equal(t, 1, strings.Count(stderr.String(), "\n"), "stderr: %q", stderr.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "my: aggregate expenses: unknown category"), stderr.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("stdout closed") }

func TestExpensesRenderFailure(t *testing.T) {
	path := writeCSV(t, "a.csv", "Timestamp,Amount,Category\n2023-01-05,100.00,Hotel\n")

	var logs bytes.Buffer
	root := NewRootCommand(Deps{
		Config: testConfig(t),
		Logger: applog.New(applog.Config{Level: slog.LevelDebug, Output: &logs}),
		Runner: &fakeRunner{},
	})
	root.SetOut(brokenWriter{})
	root.SetErr(io.Discard)
	root.SetArgs([]string{"expenses", path})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, "render report: stdout closed", err.Error())
	assert.Contains(t, logs.String(), "operation=render")
	assert.Contains(t, logs.String(), `error="stdout closed"`)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("FOO-BAR=1\n"), 0o644))
	err := LoadEnvFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")

	good := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(good, []byte("MY_CLI_TEST_PORT=9191\n"), 0o644))
	require.NoError(t, os.Unsetenv("MY_CLI_TEST_PORT"))
	t.Cleanup(func() { os.Unsetenv("MY_CLI_TEST_PORT") })
	require.NoError(t, LoadEnvFile(good))
	assert.Equal(t, "9191", os.Getenv("MY_CLI_TEST_PORT"))
}

func TestHighlightCommand(t *testing.T) {
	r := &fakeRunner{}
	out, err := run(t, testConfig(t), r, "highlight", "go")
	require.NoError(t, err)
	assert.Equal(t, "Code highlighted and in your clipboard!\n", out)
	require.Len(t, r.calls, 3)
	assert.Contains(t, r.calls[1].Args, "--syntax=go")
}

func TestBackupCommand(t *testing.T) {
	r := &fakeRunner{}
	_, err := run(t, testConfig(t), r, "backup", "--dry-run")
	require.NoError(t, err)
	require.Len(t, r.calls, 2)
	assert.Contains(t, r.calls[0].Args, "--dry-run")

	cfg := testConfig(t)
	cfg.BackupVolume = filepath.Join(t.TempDir(), "RhinoDrive")
	_, err = run(t, cfg, &fakeRunner{}, "backup")
	assert.ErrorIs(t, err, core.ErrDriveNotConnected)
}

func TestServeCommandValidation(t *testing.T) {
	_, err := run(t, testConfig(t), &fakeRunner{}, "serve", t.TempDir(), "-p", "abc")
	assert.ErrorContains(t, err, "invalid port 'abc'")

	_, err = run(t, testConfig(t), &fakeRunner{}, "serve", filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "serve directory")
}

func TestVersion(t *testing.T) {
	out, err := run(t, testConfig(t), &fakeRunner{}, "--version")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0\n", out)
}
