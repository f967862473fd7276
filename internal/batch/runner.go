package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/engine"
	"dicom-privacy-kit/internal/profile"
)

// Config describes one directory run.
type Config struct {
	InputDir  string
	OutputDir string // defaults to <InputDir>/anonymized
	Salt      string
	Selection profile.Selection

	Recursive   bool
	RetryFailed bool // forget previous failures and retry them
	DryRun      bool // discover and report, write nothing

	ProgressFile string // "" disables resume tracking
	ErrorLogFile string // "" disables the failure log
}

// Stats summarizes a finished run.
type Stats struct {
	Success int
	Failed  int
	Skipped int
}

// Total returns the number of files the run looked at.
func (s Stats) Total() int { return s.Success + s.Failed + s.Skipped }

// Run anonymizes every DICOM file under cfg.InputDir, mirroring the
// directory layout beneath cfg.OutputDir. Already-succeeded files from
// a previous run are skipped; per-file failures are logged and counted
// but do not abort the run. onProgress, if non-nil, is called after
// each file.
func Run(cfg Config, onProgress func(done, total int, path string)) (Stats, error) {
	var stats Stats

	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.InputDir, "anonymized")
	}

	files, err := dataset.FindFiles(cfg.InputDir, cfg.Recursive)
	if err != nil {
		return stats, fmt.Errorf("could not scan %s: %w", cfg.InputDir, err)
	}
	// Outputs of a previous run must never be re-ingested: the output
	// tree mirrors input names, so without this a resumed run would
	// anonymize its own results one level deeper each time.
	files = excludeUnder(files, cfg.OutputDir)
	if len(files) == 0 {
		return stats, fmt.Errorf("no DICOM files found under %s", cfg.InputDir)
	}

	tracker := NewTracker(cfg.ProgressFile)
	if cfg.RetryFailed {
		if n := tracker.ClearFailed(); n > 0 {
			log.Info().Int("count", n).Msg("cleared failed entries for retry")
		}
	}

	errLog, err := NewErrorLog(cfg.ErrorLogFile)
	if err != nil {
		return stats, err
	}
	defer errLog.Close()

	eng := engine.New(cfg.Salt, nil)

	for i, path := range files {
		switch {
		case tracker.IsProcessed(path):
			stats.Skipped++
		case cfg.DryRun:
			stats.Skipped++
		default:
			output, err := processFile(eng, cfg, path)
			if err != nil {
				stats.Failed++
				tracker.MarkError(path, err.Error())
				errLog.Log(path, err.Error())
				log.Warn().Err(err).Str("file", path).Msg("file failed")
			} else {
				stats.Success++
				tracker.MarkSuccess(path, output)
			}
		}

		if onProgress != nil {
			onProgress(i+1, len(files), path)
		}
	}

	return stats, nil
}

func processFile(eng *engine.Engine, cfg Config, path string) (string, error) {
	ds, err := dataset.Load(path)
	if err != nil {
		return "", fmt.Errorf("could not load: %w", err)
	}

	anonymized, _ := eng.Apply(ds, cfg.Selection, engine.Options{InPlace: true})

	output := outputPath(cfg, path)
	if err := dataset.Save(output, anonymized); err != nil {
		return "", fmt.Errorf("could not write %s: %w", output, err)
	}
	return output, nil
}

// outputPath mirrors the input's position relative to InputDir under
// OutputDir.
func outputPath(cfg Config, input string) string {
	rel, err := filepath.Rel(cfg.InputDir, input)
	if err != nil {
		rel = filepath.Base(input)
	}
	return filepath.Join(cfg.OutputDir, rel)
}

// excludeUnder drops files that live beneath dir.
func excludeUnder(files []string, dir string) []string {
	out := files[:0]
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		inside := err == nil && rel != ".." &&
			!strings.HasPrefix(rel, ".."+string(filepath.Separator))
		if !inside {
			out = append(out, f)
		}
	}
	return out
}
