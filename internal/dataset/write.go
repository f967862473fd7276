package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Save writes the dataset to a DICOM file. Elements untouched since
// load are written back verbatim; mutated values are rebuilt.
func Save(path string, d *Dataset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	var out dicom.Dataset
	for _, e := range d.Elements() {
		de, err := e.toDICOM()
		if err != nil {
			return fmt.Errorf("could not encode %s: %w", Keyword(e.Tag), err)
		}
		out.Elements = append(out.Elements, de)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer file.Close()

	// Relaxed verification: many real-world DICOM files don't strictly
	// follow VR specifications.
	if err := dicom.Write(file, out,
		dicom.SkipVRVerification(),
		dicom.SkipValueTypeVerification(),
		dicom.DefaultMissingTransferSyntax(),
	); err != nil {
		return fmt.Errorf("could not write DICOM: %w", err)
	}

	return nil
}

func (e *Element) toDICOM() (*dicom.Element, error) {
	if e.raw != nil {
		return e.raw, nil
	}

	var (
		val    dicom.Value
		err    error
		length int
	)
	switch v := e.Value.(type) {
	case nil:
		val, err = dicom.NewValue([]string{""})
	case string:
		val, err = dicom.NewValue([]string{v})
		length = len(v)
	case []string:
		val, err = dicom.NewValue(v)
	case []float64:
		val, err = dicom.NewValue(v)
	case []byte:
		val, err = dicom.NewValue(v)
		length = len(v)
	default:
		return nil, fmt.Errorf("unsupported value type %T", e.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create value: %w", err)
	}

	return &dicom.Element{
		Tag:                    e.Tag,
		ValueRepresentation:    tag.GetVRKind(e.Tag, e.VR),
		RawValueRepresentation: e.VR,
		ValueLength:            uint32(length),
		Value:                  val,
	}, nil
}
