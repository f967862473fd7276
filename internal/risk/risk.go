// Package risk scores the residual identifiability of a dataset.
//
// Scoring goals:
//   - bounded: per-tag risk never exceeds base_risk * category_weight
//   - explainable: every number traces back to its category, base risk,
//     and applied weight
//   - tunable: a scorer with overridden weights is derived as a new
//     value, so tuning never leaks into other callers
//
// Private (odd-group) tags are not scored at all; dataset.FlagPrivate
// surfaces them for manual review instead. This is a known limitation,
// not a scoring rule waiting to be invented.
package risk

import (
	"math"
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"

	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/registry"
)

// Level buckets a risk percentage.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// hashedRiskFactor discounts values that already look like digests.
const hashedRiskFactor = 0.2

// anonymizedPlaceholders are values that carry no identifying
// information regardless of the tag they sit in.
var anonymizedPlaceholders = map[string]bool{
	"anonymous":  true,
	"anonymized": true,
	"n/a":        true,
	"none":       true,
}

// Breakdown traces one tag's score back to its inputs.
type Breakdown struct {
	Risk     float64
	BaseRisk float64
	Weight   float64
	MaxRisk  float64
	Category string
}

// Score is a bounded, explainable risk assessment for one dataset.
type Score struct {
	Total      float64
	Max        float64
	Percentage float64 // 0-100
	Level      Level
	TagScores  map[tag.Tag]float64
	Breakdown  map[tag.Tag]Breakdown
}

// Scorer computes risk scores against one registry using its own
// weight table. Scorers are immutable once built.
type Scorer struct {
	registry *registry.Registry
	weights  map[string]float64
}

// NewScorer returns a scorer over the given registry with the default
// weights.
func NewScorer(reg *registry.Registry) *Scorer {
	return &Scorer{registry: reg, weights: DefaultWeights()}
}

// WithWeights derives a new scorer whose weight table has the given
// overrides applied. The receiver is left untouched, which keeps
// what-if policy tuning from coupling unrelated callers.
func (s *Scorer) WithWeights(overrides map[string]float64) *Scorer {
	weights := make(map[string]float64, len(s.weights)+len(overrides))
	for k, v := range s.weights {
		weights[k] = v
	}
	for k, v := range overrides {
		weights[k] = v
	}
	return &Scorer{registry: s.registry, weights: weights}
}

// categoryWeight returns the weight category and weight for a tag.
// Unmapped tags and unmapped categories fall back to neutral 1.0.
func (s *Scorer) categoryWeight(t tag.Tag) (string, float64) {
	category, ok := tagCategories[t]
	if !ok {
		category = categoryUnknown
	}
	weight, ok := s.weights[category]
	if !ok {
		weight = 1.0
	}
	return category, weight
}

// TagRisk calculates the bounded risk for one tag and value. Unknown
// tags contribute zero, never an error.
func (s *Scorer) TagRisk(t tag.Tag, value string) Breakdown {
	meta, ok := s.registry.Lookup(t)
	if !ok {
		return Breakdown{Weight: 1.0, Category: categoryUnknown}
	}

	base := float64(meta.RiskLevel)
	category, weight := s.categoryWeight(t)
	maxRisk := base * weight
	b := Breakdown{BaseRisk: base, Weight: weight, MaxRisk: maxRisk, Category: category}

	// Empty or whitespace-only values carry no risk.
	if strings.TrimSpace(value) == "" {
		return b
	}
	if anonymizedPlaceholders[strings.ToLower(value)] {
		return b
	}
	if looksHashed(value) {
		b.Risk = math.Min(maxRisk, maxRisk*hashedRiskFactor)
		return b
	}

	b.Risk = maxRisk
	return b
}

// looksHashed reports whether a value has the shape of a truncated or
// full hex digest: length exactly 16, 32, or 64 with every character a
// lowercase hex digit.
func looksHashed(value string) bool {
	switch len(value) {
	case 16, 32, 64:
	default:
		return false
	}
	for _, c := range value {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Score assesses every PHI tag the registry knows. Absent tags still
// contribute to the aggregate maximum; present tags get one breakdown
// entry each, zero-risk ones included, so every number is traceable.
func (s *Scorer) Score(ds *dataset.Dataset) Score {
	result := Score{
		TagScores: make(map[tag.Tag]float64),
		Breakdown: make(map[tag.Tag]Breakdown),
	}

	for _, t := range s.registry.PHITags() {
		meta, _ := s.registry.Lookup(t)
		_, weight := s.categoryWeight(t)
		result.Max += float64(meta.RiskLevel) * weight

		elem, ok := ds.Get(t)
		if !ok {
			continue
		}
		b := s.TagRisk(t, elem.String())
		result.TagScores[t] = b.Risk
		result.Breakdown[t] = b
		result.Total += b.Risk
	}

	if result.Max > 0 {
		result.Percentage = result.Total / result.Max * 100
		if result.Percentage < 0 {
			result.Percentage = 0
		}
		if result.Percentage > 100 {
			result.Percentage = 100
		}
	} else {
		// No PHI tags registered means nothing can be attested.
		result.Percentage = 100
	}

	result.Level = levelFor(result.Percentage)
	return result
}

func levelFor(pct float64) Level {
	switch {
	case pct >= 75:
		return LevelCritical
	case pct >= 50:
		return LevelHigh
	case pct >= 25:
		return LevelMedium
	default:
		return LevelLow
	}
}
