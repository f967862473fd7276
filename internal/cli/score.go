package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dicom-privacy-kit/internal/config"
	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/registry"
	"dicom-privacy-kit/internal/report"
	"dicom-privacy-kit/internal/risk"
)

func newScoreCmd(cfg *config.Config) *cobra.Command {
	var (
		failOnRisk float64
		weights    []string
	)

	cmd := &cobra.Command{
		Use:   "score <input.dcm>",
		Short: "Calculate the PHI risk score of a DICOM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.Load(args[0])
			if err != nil {
				return fmt.Errorf("could not load DICOM file: %w", err)
			}

			reg := registry.Default()
			scorer := risk.NewScorer(reg)

			if len(weights) > 0 {
				overrides, err := parseWeights(weights)
				if err != nil {
					return err
				}
				scorer = scorer.WithWeights(overrides)
			}

			score := scorer.Score(ds)
			cmd.Printf("%s\n", report.FormatRisk(reg, score))

			if flags := dataset.FlagPrivate(ds); len(flags) > 0 {
				cmd.Printf("\n%s\n", report.FormatPrivateFlags(flags))
			}

			if failOnRisk >= 0 && score.Percentage >= failOnRisk {
				return fmt.Errorf("risk threshold exceeded: %.1f%% >= %.1f%%",
					score.Percentage, failOnRisk)
			}

			return nil
		},
	}

	cmd.Flags().Float64Var(&failOnRisk, "fail-on-risk", cfg.FailOnRisk, "exit 1 when the risk percentage reaches this threshold (negative disables)")
	cmd.Flags().StringSliceVar(&weights, "weight", nil, "category weight override as category=weight, repeatable")

	return cmd
}

func parseWeights(pairs []string) (map[string]float64, error) {
	overrides := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid weight %q, expected category=weight", pair)
		}
		w, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", pair, err)
		}
		overrides[parts[0]] = w
	}
	return overrides, nil
}
