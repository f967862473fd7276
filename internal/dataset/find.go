package dataset

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var dicomExtensions = map[string]bool{
	".dcm":   true,
	".dicom": true,
}

// Extensions that are never DICOM, so the magic-byte sniff can be
// skipped for them.
var nonDicomExtensions = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".xml": true,
	".txt": true, ".md": true, ".log": true, ".csv": true,
	".png": true, ".jpg": true, ".jpeg": true, ".pdf": true,
	".zip": true, ".tar": true, ".gz": true,
	".go": true, ".py": true, ".sh": true,
}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
}

// FindFiles walks root and returns the DICOM files beneath it, sorted.
// Files with a .dcm/.dicom extension are taken at face value; anything
// else is sniffed for the DICM preamble. Previously produced outputs
// (*.anonymized.dcm) are not picked up again.
func FindFiles(root string, recursive bool) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") || strings.Contains(name, ".anonymized.") {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case dicomExtensions[ext]:
			files = append(files, path)
		case nonDicomExtensions[ext]:
			// known non-DICOM, skip
		case hasDICOMPreamble(path):
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.Walk(root, walkFn); err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// hasDICOMPreamble reports whether the file carries "DICM" at byte
// offset 128.
func hasDICOMPreamble(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, 132)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return string(header[128:132]) == "DICM"
}
