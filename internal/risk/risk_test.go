package risk

import (
	"math"
	"strings"
	"testing"

	"github.com/suyashkumar/dicom/pkg/tag"

	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/registry"
)

func TestAnonymizedPlaceholdersScoreZero(t *testing.T) {
	scorer := NewScorer(registry.Default())

	values := []string{"ANONYMIZED", "anonymized", "Anonymous", "N/A", "none", "", "   "}
	for _, v := range values {
		b := scorer.TagRisk(tag.PatientName, v)
		if b.Risk != 0 {
			t.Errorf("TagRisk(PatientName, %q) = %v, want 0", v, b.Risk)
		}
		if b.MaxRisk == 0 {
			t.Errorf("max risk should still be reported for %q", v)
		}
	}
}

func TestHashedValueScoresTwentyPercent(t *testing.T) {
	scorer := NewScorer(registry.Default())

	b := scorer.TagRisk(tag.PatientID, strings.Repeat("a", 32))
	want := b.MaxRisk * 0.2
	if math.Abs(b.Risk-want) > 1e-12 {
		t.Errorf("hashed value risk = %v, want %v (20%% of max)", b.Risk, want)
	}
	// PatientID: base 5, id weight 1.0 -> exactly 1.0
	if math.Abs(b.Risk-1.0) > 1e-12 {
		t.Errorf("hashed PatientID risk = %v, want 1.0", b.Risk)
	}
}

func TestLooksHashed(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{strings.Repeat("a", 16), true},
		{strings.Repeat("0", 32), true},
		{strings.Repeat("f", 64), true},
		{strings.Repeat("a", 15), false},
		{strings.Repeat("a", 33), false},
		{strings.Repeat("g", 32), false},
		{strings.Repeat("A", 32), false}, // uppercase hex is not a digest of ours
		{"", false},
	}

	for _, tt := range tests {
		if got := looksHashed(tt.value); got != tt.expected {
			t.Errorf("looksHashed(%q) = %v, want %v", tt.value, got, tt.expected)
		}
	}
}

func TestTagRiskIsBounded(t *testing.T) {
	scorer := NewScorer(registry.Default())

	values := []string{
		"",
		"   ",
		"John^Doe",
		strings.Repeat("x", 10000),
		"héllo wörld 患者",
		"anonymous",
		strings.Repeat("a", 16),
		"\x00\x01binary-ish",
	}

	for _, phiTag := range registry.Default().PHITags() {
		for _, v := range values {
			b := scorer.TagRisk(phiTag, v)
			if b.Risk < 0 || b.Risk > b.MaxRisk {
				t.Errorf("TagRisk(%v, %q) = %v outside [0, %v]", phiTag, v, b.Risk, b.MaxRisk)
			}
		}
	}
}

func TestUnknownTagScoresZero(t *testing.T) {
	scorer := NewScorer(registry.Default())

	b := scorer.TagRisk(tag.Tag{Group: 0x0011, Element: 0x0010}, "anything")
	if b.Risk != 0 || b.MaxRisk != 0 {
		t.Errorf("unknown tag risk = %+v, want zero", b)
	}
	if b.Category != categoryUnknown || b.Weight != 1.0 {
		t.Errorf("unknown tag should use the neutral category, got %+v", b)
	}
}

func TestScoreEmptyDataset(t *testing.T) {
	scorer := NewScorer(registry.Default())
	s := scorer.Score(dataset.New())

	if s.Total != 0 {
		t.Errorf("total = %v, want 0", s.Total)
	}
	if s.Percentage != 0 {
		t.Errorf("percentage = %v, want 0", s.Percentage)
	}
	if s.Level != LevelLow {
		t.Errorf("level = %v, want LOW", s.Level)
	}
	if s.Max == 0 {
		t.Error("max should count every registered PHI tag regardless of presence")
	}
	if len(s.TagScores) != 0 || len(s.Breakdown) != 0 {
		t.Error("empty dataset should have no per-tag entries")
	}
}

func TestScoreLevels(t *testing.T) {
	// Default registry weighted max: 5 + 5 + 3.2 + 2.4 + 1.2 + 2.8 + 2.8 = 22.4
	tests := []struct {
		name     string
		present  []tag.Tag
		expected Level
	}{
		{"nothing present", nil, LevelLow},
		{"name only (22%)", []tag.Tag{tag.PatientName}, LevelLow},
		{"name and id (45%)", []tag.Tag{tag.PatientName, tag.PatientID}, LevelMedium},
		{"name, id, birth date (59%)", []tag.Tag{tag.PatientName, tag.PatientID, tag.PatientBirthDate}, LevelHigh},
		{
			"everything (100%)",
			[]tag.Tag{
				tag.PatientName, tag.PatientID, tag.PatientBirthDate,
				tag.StudyDate, tag.StudyTime, tag.StudyInstanceUID, tag.SeriesInstanceUID,
			},
			LevelCritical,
		},
	}

	scorer := NewScorer(registry.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dataset.New()
			for _, tg := range tt.present {
				d.Set(tg, "LO", "real-value")
			}
			s := scorer.Score(d)
			if s.Level != tt.expected {
				t.Errorf("level = %v (%.1f%%), want %v", s.Level, s.Percentage, tt.expected)
			}
			if s.Percentage < 0 || s.Percentage > 100 {
				t.Errorf("percentage %v outside [0,100]", s.Percentage)
			}
		})
	}
}

func TestScoreWithNoRegisteredPHI(t *testing.T) {
	scorer := NewScorer(registry.New())
	s := scorer.Score(dataset.New())

	// No registered PHI means nothing can be attested.
	if s.Percentage != 100 {
		t.Errorf("percentage = %v, want 100 when max is 0", s.Percentage)
	}
	if s.Level != LevelCritical {
		t.Errorf("level = %v, want CRITICAL", s.Level)
	}
}

func TestScoreBreakdownIsTraceable(t *testing.T) {
	d := dataset.New()
	d.Set(tag.PatientName, "PN", "John^Doe")
	d.Set(tag.PatientID, "LO", "ANONYMIZED")

	s := NewScorer(registry.Default()).Score(d)

	name, ok := s.Breakdown[tag.PatientName]
	if !ok {
		t.Fatal("PatientName should have a breakdown entry")
	}
	if name.Category != "name" || name.BaseRisk != 5 || name.Weight != 1.0 || name.MaxRisk != 5 {
		t.Errorf("PatientName breakdown = %+v", name)
	}
	if name.Risk != 5 {
		t.Errorf("PatientName risk = %v, want full max", name.Risk)
	}

	// Zero-risk entries stay in the breakdown so every number is
	// traceable.
	id, ok := s.Breakdown[tag.PatientID]
	if !ok {
		t.Fatal("zero-risk PatientID should still appear in the breakdown")
	}
	if id.Risk != 0 || id.MaxRisk != 5 {
		t.Errorf("PatientID breakdown = %+v", id)
	}
}

func TestWithWeightsDerivesNewScorer(t *testing.T) {
	base := NewScorer(registry.Default())
	tuned := base.WithWeights(map[string]float64{"name": 2.0})

	if got := tuned.TagRisk(tag.PatientName, "John^Doe").Risk; got != 10 {
		t.Errorf("tuned risk = %v, want 10", got)
	}
	if got := base.TagRisk(tag.PatientName, "John^Doe").Risk; got != 5 {
		t.Errorf("tuning leaked into the base scorer: risk = %v, want 5", got)
	}

	// The default table itself must stay pristine.
	if w := DefaultWeights()["name"]; w != 1.0 {
		t.Errorf("DefaultWeights mutated: name = %v", w)
	}
}

func TestWithWeightsUnmappedCategory(t *testing.T) {
	tuned := NewScorer(registry.Default()).WithWeights(map[string]float64{"date": 0.5})

	b := tuned.TagRisk(tag.PatientBirthDate, "19800101")
	if b.Weight != 0.5 || b.Risk != 2 {
		t.Errorf("breakdown after override = %+v", b)
	}
}
