// Package runner spawns external programs for the highlight and backup commands.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	applog "my/internal/log"
)

// Spec describes one process invocation. Args are passed to the program
// verbatim; nothing goes through a shell.
type Spec struct {
	Name   string
	Args   []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (s Spec) String() string {
	return strings.TrimSpace(s.Name + " " + strings.Join(s.Args, " "))
}

// Runner starts processes and reports their exit code.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, spec Spec) (int, error)
}

// ExitError reports a process that ran but exited non-zero.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

// Exec runs real processes with os/exec.
type Exec struct {
	logger *applog.Logger
}

var _ Runner = (*Exec)(nil)

// NewExec returns a Runner backed by os/exec.
func NewExec(logger *applog.Logger) *Exec {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Exec{logger: logger.WithComponent(applog.ComponentRunner)}
}

// LookPath finds name on PATH.
func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run starts spec and waits for it. A process that cannot be started yields
// code -1; a non-zero exit yields its code and an *ExitError.
func (e *Exec) Run(ctx context.Context, spec Spec) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	start := time.Now()
	err := cmd.Run()
	code := cmd.ProcessState.ExitCode() // -1 when the process never started

	fields := applog.NewFields().
		WithOperation(applog.OpExec).
		WithCommand(spec.Name, spec.Args, code).
		WithError(err)
	fields[applog.FieldDuration] = time.Since(start)
	e.logger.DebugContext(ctx, "Process finished", fields.ToSlice()...)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return code, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return code, &ExitError{Name: spec.Name, Code: code}
		}
		return code, fmt.Errorf("run %s: %w", spec.Name, err)
	}
	return code, nil
}

// Output runs spec and returns what it wrote to stdout. Stderr is captured
// into the error message when the process fails.
func Output(ctx context.Context, r Runner, spec Spec) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	spec.Stdout = &stdout
	if spec.Stderr == nil {
		spec.Stderr = &stderr
	}
	if _, err := r.Run(ctx, spec); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
