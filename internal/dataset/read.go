package dataset

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Load reads a DICOM file into a Dataset. Pixel data is skipped; this
// tool works on metadata only.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}

	parsed, err := dicom.Parse(file, info.Size(), nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("could not parse DICOM: %w", err)
	}

	return FromDICOM(parsed), nil
}

// FromDICOM converts a parsed file dataset into the in-memory model.
// Pixel data elements are dropped; everything else keeps a reference to
// its original file element so unmodified values round-trip on save.
func FromDICOM(ds dicom.Dataset) *Dataset {
	out := New()
	for _, elem := range ds.Elements {
		if elem.Tag == tag.PixelData {
			continue
		}
		out.Set(elem.Tag, elem.RawValueRepresentation, convertValue(elem.Value))
		if e, ok := out.Get(elem.Tag); ok {
			e.raw = elem
		}
	}
	return out
}

func convertValue(v dicom.Value) interface{} {
	if v == nil {
		return nil
	}
	switch v.ValueType() {
	case dicom.Strings:
		ss, ok := v.GetValue().([]string)
		if !ok {
			return fmt.Sprintf("%v", v.GetValue())
		}
		if len(ss) == 1 {
			return ss[0]
		}
		return ss
	case dicom.Ints:
		is, ok := v.GetValue().([]int)
		if !ok {
			return fmt.Sprintf("%v", v.GetValue())
		}
		fs := make([]float64, len(is))
		for i, n := range is {
			fs[i] = float64(n)
		}
		return fs
	case dicom.Floats:
		fs, ok := v.GetValue().([]float64)
		if !ok {
			return fmt.Sprintf("%v", v.GetValue())
		}
		return fs
	case dicom.Bytes:
		bs, ok := v.GetValue().([]byte)
		if !ok {
			return fmt.Sprintf("%v", v.GetValue())
		}
		return bs
	case dicom.Sequences:
		return convertSequence(v)
	default:
		return fmt.Sprintf("%v", v.GetValue())
	}
}

func convertSequence(v dicom.Value) interface{} {
	items, ok := v.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		// Fall back to a best-effort representation; sequence contents
		// are only removable or keepable anyway.
		log.Debug().Msg("unexpected sequence value shape, keeping string form")
		return fmt.Sprintf("%v", v.GetValue())
	}
	sub := make([]*Dataset, 0, len(items))
	for _, item := range items {
		elems, ok := item.GetValue().([]*dicom.Element)
		if !ok {
			continue
		}
		sub = append(sub, FromDICOM(dicom.Dataset{Elements: elems}))
	}
	return sub
}
