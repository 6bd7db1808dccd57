// Package backup mirrors local directories onto an external drive with rsync.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"

	"my/internal/core"
	applog "my/internal/log"
	"my/internal/runner"
)

type Options struct {
	Volume       string // mount point that must exist before anything runs
	Dest         string
	Sources      []string
	ExcludesFile string
	Rsync        string
	DryRun       bool
}

type Service struct {
	runner runner.Runner
	opts   Options
	logger *applog.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewService returns a backup service that streams rsync output to stdout and stderr.
func NewService(r runner.Runner, opts Options, logger *applog.Logger, stdout, stderr io.Writer) *Service {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if opts.Rsync == "" {
		opts.Rsync = "rsync"
	}
	return &Service{
		runner: r,
		opts:   opts,
		logger: logger.WithComponent(applog.ComponentBackup),
		stdout: stdout,
		stderr: stderr,
	}
}

// Args returns the rsync arguments that copy source into the destination.
func (s *Service) Args(source string) []string {
	args := []string{"--archive", "--verbose", "--delete", "--delete-excluded"}
	if s.opts.ExcludesFile != "" {
		args = append(args, "--exclude-from="+s.opts.ExcludesFile)
	}
	if s.opts.DryRun {
		args = append(args, "--dry-run")
	}
	return append(args, source, s.opts.Dest)
}

// Run syncs every source in turn. A failing source does not stop the
// others; all failures are returned together.
func (s *Service) Run(ctx context.Context) error {
	if !isDir(s.opts.Volume) {
		return core.ErrDriveNotConnected
	}

	var result *multierror.Error
	for _, source := range s.opts.Sources {
		if err := ctx.Err(); err != nil {
			return multierror.Append(result, err).ErrorOrNil()
		}

		args := s.Args(source)
		code, err := s.runner.Run(ctx, runner.Spec{
			Name:   s.opts.Rsync,
			Args:   args,
			Stdout: s.stdout,
			Stderr: s.stderr,
		})
		if err == nil {
			s.logger.InfoContext(ctx, fmt.Sprintf("%s copied to %s", source, s.opts.Dest),
				applog.FieldSource, source, applog.FieldDest, s.opts.Dest)
		} else {
			s.logger.ErrorContext(ctx, fmt.Sprintf("Error: %s was not copied to %s", source, s.opts.Dest),
				applog.FieldSource, source, applog.FieldDest, s.opts.Dest, applog.FieldError, err)
			result = multierror.Append(result, fmt.Errorf("back up %s: %w", source, err))
		}
		s.logger.InfoContext(ctx, fmt.Sprintf("rsync exited with code %d", code),
			applog.NewFields().WithOperation(applog.OpSync).WithCommand(s.opts.Rsync, args, code).ToSlice()...)
	}
	return result.ErrorOrNil()
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
