// Package highlight turns a code snippet on the clipboard into syntax
// highlighted RTF and puts it back on the clipboard.
package highlight

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"my/internal/core"
	applog "my/internal/log"
	"my/internal/runner"
)

// Message is printed once the clipboard holds the highlighted snippet.
const Message = "Code highlighted and in your clipboard!"

// Options configures the highlighter and the clipboard commands. Paste and
// Copy may carry arguments, split on whitespace.
type Options struct {
	Bin      string
	Style    string
	Font     string
	FontSize int
	Paste    string
	Copy     string
}

// DefaultOptions matches a stock macOS setup with the highlight package installed.
func DefaultOptions() Options {
	return Options{
		Bin:      "highlight",
		Style:    "github",
		Font:     "Inconsolata",
		FontSize: 24,
		Paste:    "pbpaste",
		Copy:     "pbcopy",
	}
}

type Service struct {
	runner runner.Runner
	opts   Options
	logger *applog.Logger
}

func NewService(r runner.Runner, opts Options, logger *applog.Logger) *Service {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Service{runner: r, opts: opts, logger: logger.WithComponent(applog.ComponentHighlight)}
}

// Args returns the highlighter arguments for syntax.
func (s *Service) Args(syntax string) []string {
	return []string{
		"-O", "rtf",
		"--syntax=" + syntax,
		"--style=" + s.opts.Style,
		"--font-size=" + strconv.Itoa(s.opts.FontSize),
		"--font=" + s.opts.Font,
	}
}

// Highlight runs paste | highlight | copy for the given syntax.
func (s *Service) Highlight(ctx context.Context, syntax string) error {
	syntax = strings.TrimSpace(syntax)
	if syntax == "" {
		return core.ErrEmptySyntax
	}
	if _, err := s.runner.LookPath(s.opts.Bin); err != nil {
		s.logger.DebugContext(ctx, "Highlighter not found", applog.FieldCommand, s.opts.Bin, applog.FieldError, err)
		return core.ErrHighlighterMissing
	}

	paste, err := command(s.opts.Paste)
	if err != nil {
		return err
	}
	snippet, err := runner.Output(ctx, s.runner, paste)
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}

	rtf, err := runner.Output(ctx, s.runner, runner.Spec{
		Name:  s.opts.Bin,
		Args:  s.Args(syntax),
		Stdin: bytes.NewReader(snippet),
	})
	if err != nil {
		return fmt.Errorf("highlight snippet: %w", err)
	}

	cp, err := command(s.opts.Copy)
	if err != nil {
		return err
	}
	cp.Stdin = bytes.NewReader(rtf)
	if _, err := runner.Output(ctx, s.runner, cp); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	s.logger.DebugContext(ctx, "Snippet highlighted",
		"syntax", syntax,
		"input_bytes", len(snippet),
		"output_bytes", len(rtf))
	return nil
}

func command(line string) (runner.Spec, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return runner.Spec{}, fmt.Errorf("empty clipboard command")
	}
	return runner.Spec{Name: fields[0], Args: fields[1:]}, nil
}
