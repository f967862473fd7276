package risk

import (
	"github.com/suyashkumar/dicom/pkg/tag"
)

// categoryUnknown is the fallback for tags without a category mapping.
// Its weight is 1.0 so unknown tags are never silently down-weighted.
const categoryUnknown = "unknown"

// tagCategories maps registered tags to their weight category.
var tagCategories = map[tag.Tag]string{
	tag.PatientName:       "name",
	tag.PatientID:         "id",
	tag.PatientBirthDate:  "date",
	tag.StudyDate:         "date",
	tag.StudyTime:         "time",
	tag.StudyInstanceUID:  "uid",
	tag.SeriesInstanceUID: "uid",
}

// DefaultWeights returns the default category weight table. Callers
// receive a fresh copy each time; tuning happens through
// Scorer.WithWeights, never by mutating shared state.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"name":       1.0,
		"id":         1.0,
		"date":       0.8,
		"time":       0.6,
		"uid":        0.7,
		"descriptor": 0.5,
	}
}
