// Command svid-helper mirrors workload X.509 credentials from the Workload
// API to PEM files, for processes that read TLS material from disk.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sufield/svidsource/pkg/helper"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Fatal("svid-helper failed", zap.Error(err))
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "svid-helper",
		Short:         "Write Workload API X.509 credentials to PEM files and keep them rotated",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := helper.LoadConfig(configPath)
			if err != nil {
				return err
			}

			h, err := helper.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return h.Run(ctx)
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "path to helper config file")
	_ = root.MarkFlagRequired("config")

	return root
}
