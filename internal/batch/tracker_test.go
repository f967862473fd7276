package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTrackerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	progress := filepath.Join(dir, "progress.json")
	input := writeFile(t, dir, "a.dcm", "payload")

	tr := NewTracker(progress)
	if tr.IsProcessed(input) {
		t.Error("fresh tracker should not know the file")
	}
	tr.MarkSuccess(input, "out/a.dcm")
	if !tr.IsProcessed(input) {
		t.Error("file should be processed after MarkSuccess")
	}

	// A new tracker over the same file resumes the state.
	resumed := NewTracker(progress)
	if !resumed.IsProcessed(input) {
		t.Error("resumed tracker lost the success entry")
	}
}

func TestTrackerDetectsChangedInput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "a.dcm", "payload")

	tr := NewTracker(filepath.Join(dir, "progress.json"))
	tr.MarkSuccess(input, "out/a.dcm")

	// Same path, different content and size: must be reprocessed.
	writeFile(t, dir, "a.dcm", "payload grew considerably")
	if tr.IsProcessed(input) {
		t.Error("changed file should not count as processed")
	}
}

func TestTrackerErrorsAreRetriedNotSkipped(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "a.dcm", "payload")

	tr := NewTracker(filepath.Join(dir, "progress.json"))
	tr.MarkError(input, "boom")

	if tr.IsProcessed(input) {
		t.Error("a failed file must not be skipped")
	}
	success, errors := tr.Counts()
	if success != 0 || errors != 1 {
		t.Errorf("counts = %d/%d, want 0/1", success, errors)
	}

	if n := tr.ClearFailed(); n != 1 {
		t.Errorf("ClearFailed = %d, want 1", n)
	}
	if _, errors := tr.Counts(); errors != 0 {
		t.Errorf("errors after clear = %d, want 0", errors)
	}
}

func TestTrackerWithoutPersistence(t *testing.T) {
	input := writeFile(t, t.TempDir(), "a.dcm", "payload")

	tr := NewTracker("")
	tr.MarkSuccess(input, "out")
	if !tr.IsProcessed(input) {
		t.Error("in-memory tracking should still work without a file")
	}
}

func TestTrackerCorruptProgressFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	progress := writeFile(t, dir, "progress.json", "{not json")

	tr := NewTracker(progress)
	if success, errors := tr.Counts(); success != 0 || errors != 0 {
		t.Errorf("corrupt file should yield empty state, got %d/%d", success, errors)
	}
}

func TestErrorLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "sub", "errors.log")

	l, err := NewErrorLog(logPath)
	if err != nil {
		t.Fatal(err)
	}
	l.Log("/data/a.dcm", "could not parse")
	l.Log("/data/b.dcm", "could not parse")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if l.Count() != 2 {
		t.Errorf("count = %d, want 2", l.Count())
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !strings.Contains(got, "a.dcm") || !strings.Contains(got, "could not parse") {
		t.Errorf("unexpected log contents:\n%s", got)
	}
}
