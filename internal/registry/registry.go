// Package registry holds static DICOM tag metadata: display keyword,
// value representation, multiplicity, PHI flag, and a 0-5 base risk
// level. The built-in table is an intentionally partial subset of the
// tags defined by PS3.6; anonymization and scoring must work with an
// empty or partial registry.
package registry

import (
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Metadata describes one registered tag.
type Metadata struct {
	Tag       tag.Tag
	Keyword   string
	VR        string
	VM        string
	IsPHI     bool
	RiskLevel int // 0-5 scale
}

// Registry is an immutable lookup table of tag metadata.
type Registry struct {
	entries map[tag.Tag]Metadata
	order   []tag.Tag
}

// New builds a registry from the given entries. Later entries for the
// same tag replace earlier ones.
func New(entries ...Metadata) *Registry {
	r := &Registry{entries: make(map[tag.Tag]Metadata, len(entries))}
	for _, m := range entries {
		if _, ok := r.entries[m.Tag]; !ok {
			r.order = append(r.order, m.Tag)
		}
		r.entries[m.Tag] = m
	}
	return r
}

// Default returns the built-in registry covering the most common PHI
// tags. This is a partial set, not full PS3.6 coverage.
func Default() *Registry {
	return New(
		Metadata{Tag: tag.PatientName, Keyword: "PatientName", VR: "PN", VM: "1", IsPHI: true, RiskLevel: 5},
		Metadata{Tag: tag.PatientID, Keyword: "PatientID", VR: "LO", VM: "1", IsPHI: true, RiskLevel: 5},
		Metadata{Tag: tag.PatientBirthDate, Keyword: "PatientBirthDate", VR: "DA", VM: "1", IsPHI: true, RiskLevel: 4},
		Metadata{Tag: tag.PatientSex, Keyword: "PatientSex", VR: "CS", VM: "1", IsPHI: false, RiskLevel: 1},
		Metadata{Tag: tag.StudyDate, Keyword: "StudyDate", VR: "DA", VM: "1", IsPHI: true, RiskLevel: 3},
		Metadata{Tag: tag.StudyTime, Keyword: "StudyTime", VR: "TM", VM: "1", IsPHI: true, RiskLevel: 2},
		Metadata{Tag: tag.StudyInstanceUID, Keyword: "StudyInstanceUID", VR: "UI", VM: "1", IsPHI: true, RiskLevel: 4},
		Metadata{Tag: tag.SeriesInstanceUID, Keyword: "SeriesInstanceUID", VR: "UI", VM: "1", IsPHI: true, RiskLevel: 4},
	)
}

// Lookup returns the metadata for a tag.
func (r *Registry) Lookup(t tag.Tag) (Metadata, bool) {
	m, ok := r.entries[t]
	return m, ok
}

// PHITags returns all registered PHI tags in registration order.
func (r *Registry) PHITags() []tag.Tag {
	var out []tag.Tag
	for _, t := range r.order {
		if r.entries[t].IsPHI {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	return len(r.order)
}
