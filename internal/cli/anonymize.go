package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dicom-privacy-kit/internal/config"
	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/engine"
	"dicom-privacy-kit/internal/profile"
	"dicom-privacy-kit/internal/registry"
	"dicom-privacy-kit/internal/report"
)

func newAnonymizeCmd(cfg *config.Config) *cobra.Command {
	var (
		output          string
		profileNames    string
		salt            string
		showReport      bool
		ignoreRemaining bool
		verbose         bool
	)

	cmd := &cobra.Command{
		Use:   "anonymize <input.dcm>",
		Short: "Apply an anonymization profile to a DICOM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".anonymized.dcm"
			}

			original, err := dataset.Load(input)
			if err != nil {
				return fmt.Errorf("could not load DICOM file: %w", err)
			}
			cmd.Printf("Loaded: %s (%d elements)\n", input, original.Len())

			store := profile.NewStore()
			eng := engine.New(salt, store)

			// Comma-separated names merge with first-occurrence-wins
			// de-duplication by tag.
			sel := profile.ByName(profileNames)
			if names := strings.Split(profileNames, ","); len(names) > 1 {
				sel = profile.Inline(store.Merge(names...))
			}

			cmd.Printf("Applying profile: %s\n", profileNames)
			anonymized, auditLog := eng.Apply(original, sel, engine.Options{})

			if err := dataset.Save(output, anonymized); err != nil {
				return fmt.Errorf("could not write output: %w", err)
			}
			cmd.Printf("Saved: %s\n", output)

			if verbose {
				cmd.Println("\nAnonymization Log:")
				if len(auditLog) == 0 {
					cmd.Println("  (no log entries)")
				}
				for _, entry := range auditLog {
					cmd.Printf("  %s\n", entry)
				}
			}

			if showReport {
				reg := registry.Default()
				rep := report.BuildCompliance(reg, original, anonymized)
				cmd.Printf("\n%s\n", report.FormatCompliance(reg, rep))

				if rep.Remaining > 0 && !ignoreRemaining {
					return fmt.Errorf("%d PHI tags remain unchanged", rep.Remaining)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.anonymized.dcm)")
	cmd.Flags().StringVarP(&profileNames, "profile", "p", cfg.Profile, "profile name, or comma-separated names to merge")
	cmd.Flags().StringVarP(&salt, "salt", "s", cfg.Salt, "salt for hashing")
	cmd.Flags().BoolVarP(&showReport, "report", "r", false, "generate a compliance report")
	cmd.Flags().BoolVar(&ignoreRemaining, "ignore-remaining", false, "exit 0 even if PHI tags remain")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the full anonymization log")

	return cmd
}
