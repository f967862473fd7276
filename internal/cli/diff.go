package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/diff"
	"dicom-privacy-kit/internal/report"
)

func newDiffCmd() *cobra.Command {
	var showUnchanged bool

	cmd := &cobra.Command{
		Use:   "diff <before.dcm> <after.dcm>",
		Short: "Compare two DICOM files field by field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := dataset.Load(args[0])
			if err != nil {
				return fmt.Errorf("could not load %s: %w", args[0], err)
			}
			after, err := dataset.Load(args[1])
			if err != nil {
				return fmt.Errorf("could not load %s: %w", args[1], err)
			}

			d := diff.Compare(before, after)
			cmd.Printf("%s\n", report.FormatDiff(d, showUnchanged))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showUnchanged, "show-unchanged", false, "include unchanged tags in the output")

	return cmd
}
