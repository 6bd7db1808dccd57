package cli

import (
	"net"

	"github.com/spf13/cobra"

	"my/internal/config"
	apphttp "my/internal/http"
	"my/internal/middleware/security"
)

func newServeCommand(deps Deps) *cobra.Command {
	cfg := deps.Config
	var port string

	cmd := &cobra.Command{
		Use:   "serve <dir>",
		Short: "Serve the contents of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidatePort(port); err != nil {
				return err
			}
			srv, err := apphttp.NewServer(apphttp.Options{
				Addr:            net.JoinHostPort("", port),
				Dir:             args[0],
				ReadTimeout:     cfg.ServeReadTimeout,
				WriteTimeout:    cfg.ServeWriteTimeout,
				IdleTimeout:     cfg.ServeIdleTimeout,
				ShutdownTimeout: cfg.ServeShutdownTimeout,
				RateLimit:       cfg.ServeRateLimit,
				Headers:         security.DefaultHeadersConfig(),
			}, deps.Logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), nil)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", cfg.ServePort, "port to listen on")
	return cmd
}
