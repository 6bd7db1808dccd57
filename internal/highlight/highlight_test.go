package highlight

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"my/internal/core"
	applog "my/internal/log"
	"my/internal/runner"
)

// fakeRunner records invocations and answers from a per-program script.
type fakeRunner struct {
	missing map[string]bool
	outputs map[string]string
	fail    map[string]int
	calls   []runner.Spec
	stdin   map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		missing: map[string]bool{},
		outputs: map[string]string{},
		fail:    map[string]int{},
		stdin:   map[string]string{},
	}
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/local/bin/" + name, nil
}

func (f *fakeRunner) Run(_ context.Context, spec runner.Spec) (int, error) {
	f.calls = append(f.calls, spec)
	if spec.Stdin != nil {
		b, _ := io.ReadAll(spec.Stdin)
		f.stdin[spec.Name] = string(b)
	}
	if code, ok := f.fail[spec.Name]; ok {
		return code, &runner.ExitError{Name: spec.Name, Code: code}
	}
	if spec.Stdout != nil {
		_, _ = io.WriteString(spec.Stdout, f.outputs[spec.Name])
	}
	return 0, nil
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestHighlightPipeline(t *testing.T) {
	r := newFakeRunner()
	r.outputs["pbpaste"] = "fmt.Println(1)"
	r.outputs["highlight"] = `{\rtf1 fmt}`

	svc := NewService(r, DefaultOptions(), quietLogger())
	require.NoError(t, svc.Highlight(context.Background(), "go"))

	require.Len(t, r.calls, 3)
	assert.Equal(t, "pbpaste", r.calls[0].Name)
	assert.Equal(t, "highlight", r.calls[1].Name)
	assert.Equal(t, []string{"-O", "rtf", "--syntax=go", "--style=github", "--font-size=24", "--font=Inconsolata"}, r.calls[1].Args)
	assert.Equal(t, "pbcopy", r.calls[2].Name)

	assert.Equal(t, "fmt.Println(1)", r.stdin["highlight"])
	assert.Equal(t, `{\rtf1 fmt}`, r.stdin["pbcopy"])
}

func TestHighlightSyntaxIsOneArgument(t *testing.T) {
	r := newFakeRunner()
	svc := NewService(r, DefaultOptions(), quietLogger())
	require.NoError(t, svc.Highlight(context.Background(), "js; rm -rf ~"))

	require.Len(t, r.calls, 3)
	assert.Contains(t, r.calls[1].Args, "--syntax=js; rm -rf ~")
}

func TestHighlightMissingBinary(t *testing.T) {
	r := newFakeRunner()
	r.missing["highlight"] = true

	err := NewService(r, DefaultOptions(), quietLogger()).Highlight(context.Background(), "go")
	assert.ErrorIs(t, err, core.ErrHighlighterMissing)
	assert.Contains(t, err.Error(), "brew install highlight")
	assert.Empty(t, r.calls)
}

func TestHighlightEmptySyntax(t *testing.T) {
	r := newFakeRunner()
	err := NewService(r, DefaultOptions(), quietLogger()).Highlight(context.Background(), "  ")
	assert.ErrorIs(t, err, core.ErrEmptySyntax)
	assert.Empty(t, r.calls)
}

func TestHighlightFailures(t *testing.T) {
	tests := []struct {
		name    string
		failing string
		wantMsg string
		calls   int
	}{
		{"paste fails", "pbpaste", "read clipboard", 1},
		{"highlighter fails", "highlight", "highlight snippet", 2},
		{"copy fails", "pbcopy", "write clipboard", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRunner()
			r.fail[tt.failing] = 1

			err := NewService(r, DefaultOptions(), quietLogger()).Highlight(context.Background(), "go")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			var exitErr *runner.ExitError
			assert.ErrorAs(t, err, &exitErr)
			assert.Len(t, r.calls, tt.calls)
		})
	}
}

func TestHighlightCustomClipboardCommands(t *testing.T) {
	r := newFakeRunner()
	opts := DefaultOptions()
	opts.Paste = "xclip -selection clipboard -o"
	opts.Copy = "xclip -selection clipboard -t text/rtf"
	opts.FontSize = 14

	require.NoError(t, NewService(r, opts, quietLogger()).Highlight(context.Background(), "python"))
	require.Len(t, r.calls, 3)
	assert.Equal(t, "xclip", r.calls[0].Name)
	assert.Equal(t, []string{"-selection", "clipboard", "-o"}, r.calls[0].Args)
	assert.Contains(t, r.calls[1].Args, "--font-size=14")
	assert.Equal(t, []string{"-selection", "clipboard", "-t", "text/rtf"}, r.calls[2].Args)
}
