package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dicom-privacy-kit/internal/batch"
	"dicom-privacy-kit/internal/config"
	"dicom-privacy-kit/internal/profile"
)

func newBatchCmd(cfg *config.Config) *cobra.Command {
	var (
		output       string
		profileNames string
		salt         string
		recursive    bool
		retryFailed  bool
		dryRun       bool
		noResume     bool
	)

	cmd := &cobra.Command{
		Use:   "batch <input-dir>",
		Short: "Anonymize every DICOM file in a directory tree",
		Long: `Anonymize every DICOM file found under the input directory,
mirroring its layout under the output directory. Progress is recorded
in a .privacykit-progress.json file inside the output directory, so an
interrupted run resumes where it stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = filepath.Join(input, "anonymized")
			}

			store := profile.NewStore()
			sel := profile.ByName(profileNames)
			if names := strings.Split(profileNames, ","); len(names) > 1 {
				sel = profile.Inline(store.Merge(names...))
			}

			runCfg := batch.Config{
				InputDir:     input,
				OutputDir:    output,
				Salt:         salt,
				Selection:    sel,
				Recursive:    recursive,
				RetryFailed:  retryFailed,
				DryRun:       dryRun,
				ErrorLogFile: filepath.Join(output, "errors.log"),
			}
			if !noResume {
				runCfg.ProgressFile = filepath.Join(output, ".privacykit-progress.json")
			}

			if dryRun {
				cmd.Println("[dry run] no files will be written")
			}
			cmd.Printf("Profile: %s\n", profileNames)

			pb := newProgressBar(cmd, 50)
			stats, err := batch.Run(runCfg, func(done, total int, _ string) {
				pb.update(done, total)
			})
			if stats.Total() > 0 {
				cmd.Println()
			}
			if err != nil {
				return err
			}

			cmd.Printf("Done: %d succeeded, %d failed, %d skipped\n",
				stats.Success, stats.Failed, stats.Skipped)
			cmd.Printf("Output: %s\n", output)

			if stats.Failed > 0 {
				return fmt.Errorf("%d files failed, see %s", stats.Failed, runCfg.ErrorLogFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: <input-dir>/anonymized)")
	cmd.Flags().StringVarP(&profileNames, "profile", "p", cfg.Profile, "profile name, or comma-separated names to merge")
	cmd.Flags().StringVarP(&salt, "salt", "s", cfg.Salt, "salt for hashing")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "descend into subdirectories")
	cmd.Flags().BoolVar(&retryFailed, "retry", false, "retry files that failed in a previous run")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list what would be processed, write nothing")
	cmd.Flags().BoolVar(&noResume, "no-resume", false, "ignore and do not write the progress file")

	return cmd
}

type progressBar struct {
	cmd   *cobra.Command
	width int
}

func newProgressBar(cmd *cobra.Command, width int) *progressBar {
	return &progressBar{cmd: cmd, width: width}
}

func (pb *progressBar) update(current, total int) {
	if total == 0 {
		return
	}
	percent := float64(current) / float64(total)
	filled := int(percent * float64(pb.width))
	if filled > pb.width {
		filled = pb.width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", pb.width-filled)
	pb.cmd.Printf("\r[%s] %3.0f%%  (%d/%d)", bar, percent*100, current, total)
}
