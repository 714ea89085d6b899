package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"eiendom_showcase/internal/adapters/observability"
	"eiendom_showcase/internal/shared"
)

type options struct {
	dataDir string
	workers int
	cfg     shared.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: shared.Load()}

	root := &cobra.Command{
		Use:           "ingestor",
		Short:         "Validate property files and mirror them into MySQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// initialize global logger (console in dev, JSON otherwise)
			log.Logger = observability.NewLogger(opts.cfg.AppEnv, opts.cfg.LogLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", opts.cfg.DataDir, "directory with property files")
	root.PersistentFlags().IntVar(&opts.workers, "workers", opts.cfg.IngestWorkers, "concurrent upserts")

	root.AddCommand(newImportCmd(opts), newValidateCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("ingestor failed")
		os.Exit(1)
	}
}
