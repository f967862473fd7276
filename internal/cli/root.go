// Package cli wires the anonymize, batch, score, and diff subcommands. All
// policy decisions that can fail a run (risk thresholds, remaining PHI)
// live here, not in the core packages.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dicom-privacy-kit/internal/config"
)

// NewRootCmd builds the privacykit command tree.
func NewRootCmd() *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("could not load config, using defaults")
		cfg = &config.Config{Profile: "basic", FailOnRisk: -1}
	}

	var debug bool

	rootCmd := &cobra.Command{
		Use:           "privacykit",
		Short:         "Anonymize, diff, and risk-score DICOM files",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			if debug || cfg.Debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newAnonymizeCmd(cfg))
	rootCmd.AddCommand(newBatchCmd(cfg))
	rootCmd.AddCommand(newScoreCmd(cfg))
	rootCmd.AddCommand(newDiffCmd())

	return rootCmd
}
