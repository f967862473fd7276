// Package dataset provides an in-memory model of a DICOM dataset with
// strict tri-state tag semantics:
//
//   - MISSING: the tag is absent from the dataset
//   - EMPTY: the tag is present with the empty value for its VR
//   - PRESENT: the tag is present with a non-empty value
//
// The distinction between missing ("not applicable") and empty
// ("redacted") is load-bearing for anonymization and must survive every
// operation in this package.
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// VRClass groups DICOM value representations by how values are
// normalized for comparison and which anonymization actions apply.
type VRClass int

const (
	// ClassText covers generic string VRs (PN, LO, SH, CS, UI, ...).
	ClassText VRClass = iota
	// ClassNumeric covers VRs whose values compare as numbers.
	ClassNumeric
	// ClassDateTime covers date and time VRs compared in string form.
	ClassDateTime
	// ClassBinary covers byte-valued VRs compared as raw bytes.
	ClassBinary
	// ClassSequence covers nested datasets (VR=SQ). Sequences are never
	// hashed, emptied, or replaced; only removed or kept.
	ClassSequence
)

var numericVRs = map[string]bool{
	"DS": true, "IS": true, "US": true, "SS": true,
	"UL": true, "SL": true, "FD": true, "FL": true,
}

var dateTimeVRs = map[string]bool{
	"DA": true, "TM": true, "DT": true,
}

var binaryVRs = map[string]bool{
	"OB": true, "OW": true, "OD": true, "OF": true, "OL": true, "OV": true,
}

// ClassOf maps a DICOM VR code to its VRClass. Unknown VRs are treated
// as generic text.
func ClassOf(vr string) VRClass {
	switch {
	case vr == "SQ":
		return ClassSequence
	case numericVRs[vr]:
		return ClassNumeric
	case dateTimeVRs[vr]:
		return ClassDateTime
	case binaryVRs[vr]:
		return ClassBinary
	default:
		return ClassText
	}
}

// Element is a single typed, tagged field. Value holds one of:
// string, []string, []float64, []byte, or []*Dataset (sequence items).
type Element struct {
	Tag   tag.Tag
	VR    string
	Value interface{}

	// raw is the parsed file element this value came from, kept so
	// untouched elements round-trip byte-faithfully on save. Cleared on
	// any mutation.
	raw *dicom.Element
}

// Class returns the element's VRClass.
func (e *Element) Class() VRClass {
	return ClassOf(e.VR)
}

// IsEmpty reports whether the element carries the empty value for its
// VR. Whitespace-only strings are NOT empty; "" and " " are distinct
// values.
func (e *Element) IsEmpty() bool {
	switch v := e.Value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0 || (len(v) == 1 && v[0] == "")
	case []float64:
		return len(v) == 0
	case []byte:
		return len(v) == 0
	case []*Dataset:
		return len(v) == 0
	default:
		return false
	}
}

// String returns the canonical string form of the value. Whitespace is
// preserved and multi-valued fields join with the DICOM `\` separator.
// The string form is what reports display; equality decisions may use a
// different representation.
func (e *Element) String() string {
	switch v := e.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, `\`)
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, `\`)
	case []byte:
		if len(v) > 16 {
			return fmt.Sprintf("%x... (%d bytes)", v[:16], len(v))
		}
		return fmt.Sprintf("%x", v)
	case []*Dataset:
		return fmt.Sprintf("Sequence(%d items)", len(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (e *Element) clone() *Element {
	c := &Element{Tag: e.Tag, VR: e.VR, raw: e.raw}
	switch v := e.Value.(type) {
	case []string:
		c.Value = append([]string(nil), v...)
	case []float64:
		c.Value = append([]float64(nil), v...)
	case []byte:
		c.Value = append([]byte(nil), v...)
	case []*Dataset:
		items := make([]*Dataset, len(v))
		for i, item := range v {
			items[i] = item.Clone()
		}
		c.Value = items
	default:
		c.Value = v
	}
	return c
}

// Dataset maps tags to elements while preserving insertion order, so
// iteration is stable within one call.
type Dataset struct {
	elems map[tag.Tag]*Element
	order []tag.Tag
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{elems: make(map[tag.Tag]*Element)}
}

// Contains reports whether the tag is present (empty or otherwise).
func (d *Dataset) Contains(t tag.Tag) bool {
	_, ok := d.elems[t]
	return ok
}

// Get returns the element for a tag.
func (d *Dataset) Get(t tag.Tag) (*Element, bool) {
	e, ok := d.elems[t]
	return e, ok
}

// Set inserts or replaces an element. Replacing keeps the tag's
// original position in iteration order.
func (d *Dataset) Set(t tag.Tag, vr string, value interface{}) {
	if e, ok := d.elems[t]; ok {
		e.VR = vr
		e.Value = value
		e.raw = nil
		return
	}
	d.elems[t] = &Element{Tag: t, VR: vr, Value: value}
	d.order = append(d.order, t)
}

// SetValue replaces the value of a present element, keeping its VR.
// It reports false for a missing tag and never creates one.
func (d *Dataset) SetValue(t tag.Tag, value interface{}) bool {
	e, ok := d.elems[t]
	if !ok {
		return false
	}
	e.Value = value
	e.raw = nil
	return true
}

// Delete removes a tag. Deleting a missing tag is a no-op.
func (d *Dataset) Delete(t tag.Tag) {
	if _, ok := d.elems[t]; !ok {
		return
	}
	delete(d.elems, t)
	for i, o := range d.order {
		if o == t {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Elements returns all present elements in insertion order.
func (d *Dataset) Elements() []*Element {
	out := make([]*Element, 0, len(d.order))
	for _, t := range d.order {
		out = append(out, d.elems[t])
	}
	return out
}

// Tags returns all present tags in insertion order.
func (d *Dataset) Tags() []tag.Tag {
	return append([]tag.Tag(nil), d.order...)
}

// Len returns the number of present elements.
func (d *Dataset) Len() int {
	return len(d.order)
}

// Clone returns an independent deep copy.
func (d *Dataset) Clone() *Dataset {
	c := New()
	for _, t := range d.order {
		e := d.elems[t].clone()
		c.elems[t] = e
		c.order = append(c.order, t)
	}
	return c
}

// Keyword returns the dictionary keyword for a tag (e.g. "PatientName"),
// falling back to the (gggg,eeee) form for tags outside the standard
// dictionary.
func Keyword(t tag.Tag) string {
	if info, err := tag.Find(t); err == nil && info.Name != "" {
		return info.Name
	}
	return t.String()
}
