package cli

import (
	"github.com/spf13/cobra"

	"my/internal/backup"
)

func newBackupCommand(deps Deps) *cobra.Command {
	cfg := deps.Config
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up important files to an external hard drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := backup.NewService(deps.Runner, backup.Options{
				Volume:       cfg.BackupVolume,
				Dest:         cfg.BackupDest,
				Sources:      cfg.BackupSources,
				ExcludesFile: cfg.BackupExcludesFile,
				Rsync:        cfg.RsyncBin,
				DryRun:       dryRun,
			}, deps.Logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return svc.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what rsync would transfer without copying")
	return cmd
}
