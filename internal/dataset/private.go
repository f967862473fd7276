package dataset

import (
	"unicode/utf8"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// privateValueDisplayLimit truncates flagged values for display.
const privateValueDisplayLimit = 50

// IsPrivate reports whether a tag is manufacturer-specific. Private
// tags have odd group numbers and may carry PHI that the standard
// registry knows nothing about.
func IsPrivate(t tag.Tag) bool {
	return t.Group&0x0001 == 1
}

// PrivateFlag describes one private element found in a dataset.
type PrivateFlag struct {
	Tag     tag.Tag
	Keyword string
	VR      string
	Value   string
	Warning string
}

// FlagPrivate lists every private element in the dataset with a PHI
// review warning. Private tags are not risk-scored; they have to be
// reviewed manually.
func FlagPrivate(d *Dataset) []PrivateFlag {
	var flags []PrivateFlag
	for _, e := range d.Elements() {
		if !IsPrivate(e.Tag) {
			continue
		}
		value := truncateForDisplay(e.String(), privateValueDisplayLimit)
		flags = append(flags, PrivateFlag{
			Tag:     e.Tag,
			Keyword: Keyword(e.Tag),
			VR:      e.VR,
			Value:   value,
			Warning: "UNVERIFIED - private tags may contain PHI",
		})
	}
	return flags
}

// truncateForDisplay cuts s to at most limit bytes without splitting a
// multi-byte rune.
func truncateForDisplay(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
