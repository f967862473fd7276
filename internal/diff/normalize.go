package diff

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"dicom-privacy-kit/internal/dataset"
)

// relTolerance matches the relative tolerance used for numeric VRs.
const relTolerance = 1e-9

// equalValues decides normalized equality between two elements that
// share a tag, dispatching on the before element's VR class:
//
//   - numeric: element-wise float comparison with relative tolerance
//   - date/time: normalized string form (two format strings denoting
//     the same instant still differ; known limitation)
//   - binary: raw byte comparison, never a lossy string cast
//   - sequence: best-effort comparison of recursively normalized items
//   - text: exact canonical string form, whitespace included
func equalValues(a, b *dataset.Element) bool {
	switch a.Class() {
	case dataset.ClassNumeric:
		fa, okA := toFloats(a)
		fb, okB := toFloats(b)
		if okA && okB {
			return floatsClose(fa, fb)
		}
		log.Debug().Str("tag", dataset.Keyword(a.Tag)).
			Msg("could not normalize numeric value, comparing string form")
		return a.String() == b.String()
	case dataset.ClassBinary:
		return bytes.Equal(toBytes(a), toBytes(b))
	case dataset.ClassSequence:
		return sequenceRepr(a) == sequenceRepr(b)
	default:
		// Date/time and text both compare in canonical string form.
		return a.String() == b.String()
	}
}

func toFloats(e *dataset.Element) ([]float64, bool) {
	switch v := e.Value.(type) {
	case []float64:
		return v, true
	case string:
		f, ok := parseFloat(v)
		if !ok {
			return nil, false
		}
		return []float64{f}, true
	case []string:
		out := make([]float64, len(v))
		for i, s := range v {
			f, ok := parseFloat(s)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	default:
		return nil, false
	}
}

// parseFloat treats empty strings as zero, matching how empty numeric
// fields normalize.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func floatsClose(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !isClose(a[i], b[i]) {
			return false
		}
	}
	return true
}

func isClose(x, y float64) bool {
	if x == y {
		return true
	}
	diff := math.Abs(x - y)
	return diff <= relTolerance*math.Max(math.Abs(x), math.Abs(y))
}

func toBytes(e *dataset.Element) []byte {
	if bs, ok := e.Value.([]byte); ok {
		return bs
	}
	return []byte(e.String())
}

// sequenceRepr builds a comparable representation of a sequence by
// recursively stringifying each nested element. Sequence-level change
// detection is best-effort, not guaranteed precise.
func sequenceRepr(e *dataset.Element) string {
	items, ok := e.Value.([]*dataset.Dataset)
	if !ok {
		return e.String()
	}
	var sb strings.Builder
	for i, item := range items {
		sb.WriteString("item[")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("]{")
		for _, sub := range item.Elements() {
			sb.WriteString(dataset.Keyword(sub.Tag))
			sb.WriteString("=")
			if sub.Class() == dataset.ClassSequence {
				sb.WriteString(sequenceRepr(sub))
			} else {
				sb.WriteString(sub.String())
			}
			sb.WriteString(";")
		}
		sb.WriteString("}")
	}
	return sb.String()
}
