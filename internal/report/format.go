package report

import (
	"fmt"
	"sort"
	"strings"

	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/diff"
	"dicom-privacy-kit/internal/registry"
	"dicom-privacy-kit/internal/risk"
)

// FormatCompliance renders a compliance report. Exact text layout is a
// presentation concern; nothing downstream parses it.
func FormatCompliance(reg *registry.Registry, c Compliance) string {
	lines := []string{
		strings.Repeat("=", 50),
		"COMPLIANCE REPORT",
		strings.Repeat("=", 50),
		fmt.Sprintf("Total PHI Tags: %d", c.TotalPHITags),
		fmt.Sprintf("Removed/Modified: %d", c.Neutralized),
		fmt.Sprintf("Remaining Unchanged: %d", c.Remaining),
		fmt.Sprintf("Compliance: %.1f%%", c.Percentage),
		"",
	}

	if len(c.RemainingTags) > 0 {
		lines = append(lines, "Remaining PHI Tags:")
		for _, t := range c.RemainingTags {
			name := "Unknown"
			if meta, ok := reg.Lookup(t); ok {
				name = meta.Keyword
			}
			lines = append(lines, fmt.Sprintf("  - %s (%s)", dataset.Keyword(t), name))
		}
	}

	lines = append(lines, strings.Repeat("=", 50))
	return strings.Join(lines, "\n")
}

// FormatDiff renders a dataset diff.
func FormatDiff(d diff.DatasetDiff, showUnchanged bool) string {
	lines := []string{
		strings.Repeat("=", 70),
		"DATASET DIFF",
		strings.Repeat("=", 70),
		fmt.Sprintf("Removed: %d | Modified: %d | Unchanged: %d | Added: %d",
			len(d.Removed), len(d.Modified), len(d.Unchanged), len(d.Added)),
		"",
	}

	if len(d.Removed) > 0 {
		lines = append(lines, "REMOVED TAGS:")
		for _, item := range d.Removed {
			lines = append(lines, fmt.Sprintf("  [-] %s: %s", item.Keyword, item.Before))
		}
		lines = append(lines, "")
	}

	if len(d.Modified) > 0 {
		lines = append(lines, "MODIFIED TAGS:")
		for _, item := range d.Modified {
			lines = append(lines, fmt.Sprintf("  [~] %s:", item.Keyword))
			lines = append(lines, fmt.Sprintf("      Before: %s", item.Before))
			lines = append(lines, fmt.Sprintf("      After:  %s", item.After))
		}
		lines = append(lines, "")
	}

	if len(d.Added) > 0 {
		lines = append(lines, "ADDED TAGS:")
		for _, item := range d.Added {
			lines = append(lines, fmt.Sprintf("  [+] %s: %s", item.Keyword, item.After))
		}
		lines = append(lines, "")
	}

	if showUnchanged && len(d.Unchanged) > 0 {
		lines = append(lines, "UNCHANGED TAGS:")
		for _, item := range d.Unchanged {
			lines = append(lines, fmt.Sprintf("  [=] %s: %s", item.Keyword, item.Before))
		}
		lines = append(lines, "")
	}

	lines = append(lines, strings.Repeat("=", 70))
	return strings.Join(lines, "\n")
}

// FormatRisk renders a risk assessment with its per-tag breakdown,
// highest contributions first.
func FormatRisk(reg *registry.Registry, s risk.Score) string {
	lines := []string{
		strings.Repeat("=", 50),
		"PHI RISK ASSESSMENT",
		strings.Repeat("=", 50),
		fmt.Sprintf("Risk Level: %s", s.Level),
		fmt.Sprintf("Risk Score: %.1f / %.1f", s.Total, s.Max),
		fmt.Sprintf("Risk Percentage: %.1f%%", s.Percentage),
		"",
		"Tag-level Risks:",
	}

	type entry struct {
		keyword string
		b       risk.Breakdown
	}
	entries := make([]entry, 0, len(s.Breakdown))
	for t, b := range s.Breakdown {
		kw := dataset.Keyword(t)
		if meta, ok := reg.Lookup(t); ok {
			kw = meta.Keyword
		}
		entries = append(entries, entry{keyword: kw, b: b})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].b.Risk != entries[j].b.Risk {
			return entries[i].b.Risk > entries[j].b.Risk
		}
		return entries[i].keyword < entries[j].keyword
	})

	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("  %s [cat=%s, base=%.1f, weight=%.2f]: %.1f / %.1f",
			e.keyword, e.b.Category, e.b.BaseRisk, e.b.Weight, e.b.Risk, e.b.MaxRisk))
	}

	lines = append(lines, strings.Repeat("=", 50))
	return strings.Join(lines, "\n")
}

// FormatPrivateFlags renders the manual-review list of private tags.
func FormatPrivateFlags(flags []dataset.PrivateFlag) string {
	if len(flags) == 0 {
		return "No private tags found"
	}
	lines := []string{fmt.Sprintf("Private tags found: %d (not risk-scored)", len(flags))}
	for _, f := range flags {
		lines = append(lines, fmt.Sprintf("  %s [%s] %q - %s", f.Tag, f.VR, f.Value, f.Warning))
	}
	return strings.Join(lines, "\n")
}
