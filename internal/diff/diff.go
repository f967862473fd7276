// Package diff compares two datasets field by field with type-aware
// value normalization.
//
// Every tag present in either dataset lands in exactly one of four
// buckets:
//
//	REMOVED:   present in before, missing in after
//	ADDED:     missing in before, present in after
//	MODIFIED:  present in both, normalized values differ
//	UNCHANGED: present in both, normalized values equal
//
// EMPTY counts as PRESENT here: an empty tag in both datasets is
// UNCHANGED, a value becoming empty is MODIFIED, and a missing tag
// gaining an empty value is ADDED. Tags missing from both datasets
// appear in no bucket.
package diff

import (
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicom-privacy-kit/internal/dataset"
)

// Status classifies one tag's change.
type Status string

const (
	StatusRemoved   Status = "REMOVED"
	StatusAdded     Status = "ADDED"
	StatusModified  Status = "MODIFIED"
	StatusUnchanged Status = "UNCHANGED"
)

// TagDiff records the stringified before/after values for one tag. The
// strings are for display; the equality decision may have used a
// different representation.
type TagDiff struct {
	Tag     tag.Tag
	Keyword string
	Before  string
	After   string
	Status  Status
}

// DatasetDiff partitions the union of tags present in either dataset.
type DatasetDiff struct {
	Removed   []TagDiff
	Added     []TagDiff
	Modified  []TagDiff
	Unchanged []TagDiff
}

// Compare diffs two datasets. Ordering follows the before dataset for
// removed and common tags, and the after dataset for added tags.
func Compare(before, after *dataset.Dataset) DatasetDiff {
	var d DatasetDiff

	for _, b := range before.Elements() {
		kw := dataset.Keyword(b.Tag)
		a, ok := after.Get(b.Tag)
		if !ok {
			d.Removed = append(d.Removed, TagDiff{
				Tag: b.Tag, Keyword: kw,
				Before: b.String(), Status: StatusRemoved,
			})
			continue
		}
		td := TagDiff{
			Tag: b.Tag, Keyword: kw,
			Before: b.String(), After: a.String(),
		}
		if equalValues(b, a) {
			td.Status = StatusUnchanged
			d.Unchanged = append(d.Unchanged, td)
		} else {
			td.Status = StatusModified
			d.Modified = append(d.Modified, td)
		}
	}

	for _, a := range after.Elements() {
		if before.Contains(a.Tag) {
			continue
		}
		d.Added = append(d.Added, TagDiff{
			Tag: a.Tag, Keyword: dataset.Keyword(a.Tag),
			After: a.String(), Status: StatusAdded,
		})
	}

	return d
}
