package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the legal aid web site and API",
		Example: `  kanoon serve
  kanoon serve --port :9090 --db-driver sqlite --db-path kanoon.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			a.logger.Info("kanoon", zap.String("version", Version))

			if err := a.server().Start(ctx); err != nil {
				a.logger.Error("server stopped", zap.Error(err))
				return err
			}
			a.logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().String("port", "", "listen address, e.g. :8080")
	return cmd
}
