// Package batch anonymizes whole directory trees, with resumable
// progress tracking and a per-run error log.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// FileStatus is the recorded outcome for a single input file.
type FileStatus string

const (
	StatusSuccess FileStatus = "success"
	StatusError   FileStatus = "error"
)

// FileEntry records one processed input file.
type FileEntry struct {
	Status      FileStatus `json:"status"`
	Fingerprint string     `json:"fingerprint"`
	Output      string     `json:"output,omitempty"`
	Error       string     `json:"error,omitempty"`
	Timestamp   string     `json:"timestamp"`
}

type trackerState struct {
	Files   map[string]*FileEntry `json:"files"`
	Updated string                `json:"updated"`
	Summary struct {
		Success int `json:"success"`
		Error   int `json:"error"`
		Total   int `json:"total"`
	} `json:"summary"`
}

// Tracker persists per-file outcomes so an interrupted run can resume
// without redoing work. An empty path disables persistence.
type Tracker struct {
	mu        sync.Mutex
	path      string
	processed map[string]*FileEntry
}

// NewTracker loads prior state from path if it exists.
func NewTracker(path string) *Tracker {
	t := &Tracker{
		path:      path,
		processed: make(map[string]*FileEntry),
	}
	if path != "" {
		t.load()
	}
	return t
}

func (t *Tracker) load() {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return // no prior run
	}

	var state trackerState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Warn().Err(err).Str("path", t.path).Msg("could not load progress file, starting fresh")
		return
	}

	t.processed = state.Files
	if t.processed == nil {
		t.processed = make(map[string]*FileEntry)
	}
	log.Info().
		Int("success", t.countStatus(StatusSuccess)).
		Int("error", t.countStatus(StatusError)).
		Msg("resuming from progress file")
}

func (t *Tracker) save() {
	if t.path == "" {
		return
	}

	state := trackerState{
		Files:   t.processed,
		Updated: time.Now().Format(time.RFC3339),
	}
	state.Summary.Success = t.countStatus(StatusSuccess)
	state.Summary.Error = t.countStatus(StatusError)
	state.Summary.Total = len(t.processed)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("could not marshal progress state")
		return
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", t.path).Msg("could not save progress")
	}
}

func (t *Tracker) countStatus(status FileStatus) int {
	n := 0
	for _, e := range t.processed {
		if e.Status == status {
			n++
		}
	}
	return n
}

// fingerprint identifies a file version by size and mtime. Good enough
// to notice an input changing between runs; content hashing is not
// worth a full read per skip check.
func fingerprint(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d_%d", info.Size(), info.ModTime().Unix())
}

// IsProcessed reports whether path already succeeded with its current
// content.
func (t *Tracker) IsProcessed(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.processed[path]
	if !ok || e.Status != StatusSuccess {
		return false
	}
	return e.Fingerprint == fingerprint(path)
}

// MarkSuccess records a successful run for path.
func (t *Tracker) MarkSuccess(path, output string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed[path] = &FileEntry{
		Status:      StatusSuccess,
		Fingerprint: fingerprint(path),
		Output:      output,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	t.save()
}

// MarkError records a failure for path.
func (t *Tracker) MarkError(path, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed[path] = &FileEntry{
		Status:      StatusError,
		Fingerprint: fingerprint(path),
		Error:       msg,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	t.save()
}

// ClearFailed forgets failed entries so they are retried.
func (t *Tracker) ClearFailed() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for path, e := range t.processed {
		if e.Status == StatusError {
			delete(t.processed, path)
			n++
		}
	}
	if n > 0 {
		t.save()
	}
	return n
}

// Counts returns the success and error totals seen so far.
func (t *Tracker) Counts() (success, errors int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countStatus(StatusSuccess), t.countStatus(StatusError)
}
