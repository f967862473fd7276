// Package report cross-references the tag registry against a
// before/after dataset pair and renders human-readable summaries.
package report

import (
	"github.com/rs/zerolog/log"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/registry"
)

// Compliance summarizes how many PHI fields were neutralized between
// an original and a transformed dataset.
type Compliance struct {
	TotalPHITags  int
	Neutralized   int
	Remaining     int
	Percentage    float64
	RemainingTags []tag.Tag
}

// BuildCompliance counts, for every PHI tag the registry knows that is
// present in the original, whether the transformed dataset still
// carries the identical non-empty value. A tag removed entirely counts
// as neutralized, not unchanged. With zero PHI tags in the original,
// compliance is 100%.
func BuildCompliance(reg *registry.Registry, original, transformed *dataset.Dataset) Compliance {
	var c Compliance

	for _, t := range reg.PHITags() {
		origElem, ok := original.Get(t)
		if !ok {
			continue
		}
		c.TotalPHITags++

		transElem, ok := transformed.Get(t)
		if !ok {
			log.Debug().Str("tag", dataset.Keyword(t)).
				Msg("PHI tag removed from transformed dataset")
			continue
		}

		origVal := origElem.String()
		if origVal != "" && origVal == transElem.String() {
			c.RemainingTags = append(c.RemainingTags, t)
		}
	}

	c.Remaining = len(c.RemainingTags)
	c.Neutralized = c.TotalPHITags - c.Remaining
	if c.TotalPHITags > 0 {
		c.Percentage = float64(c.Neutralized) / float64(c.TotalPHITags) * 100
	} else {
		c.Percentage = 100
	}
	return c
}
