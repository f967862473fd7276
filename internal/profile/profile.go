// Package profile defines anonymization actions and named, ordered
// rule sets based on the PS3.15 confidentiality profiles.
//
// The built-in "basic" profile is a partial implementation of the
// PS3.15 Basic Profile covering common PHI tags, not the full ~80-tag
// table. "clean_descriptors" is a custom extension that strips text
// descriptors which may carry PHI; it is not part of PS3.15.
package profile

import (
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Action is an anonymization action applied to one tag.
type Action string

const (
	ActionRemove  Action = "remove"
	ActionHash    Action = "hash"
	ActionEmpty   Action = "empty"
	ActionKeep    Action = "keep"
	ActionReplace Action = "replace"
)

// Rule maps one tag to an action. Replacement is only meaningful for
// ActionReplace; Ref is an informational PS3.15 section reference.
type Rule struct {
	Tag         tag.Tag
	Action      Action
	Replacement string
	Ref         string
}

// Store resolves profile names to rule lists. Rule order within a
// profile matters only for audit log readability; duplicate tags inside
// one profile are not legal input.
type Store struct {
	profiles map[string][]Rule
}

// NewStore returns a store preloaded with the built-in profiles.
func NewStore() *Store {
	s := &Store{profiles: make(map[string][]Rule)}
	s.Register("basic", []Rule{
		{Tag: tag.PatientName, Action: ActionRemove, Ref: "X.1-1"},
		{Tag: tag.PatientID, Action: ActionHash, Ref: "X.1-1"},
		{Tag: tag.PatientBirthDate, Action: ActionRemove, Ref: "X.1-1"},
		{Tag: tag.PatientSex, Action: ActionKeep, Ref: "X.1-1"}, // non-identifying
		{Tag: tag.StudyDate, Action: ActionEmpty, Ref: "X.1-1"},
		{Tag: tag.StudyTime, Action: ActionEmpty, Ref: "X.1-1"},
		{Tag: tag.StudyInstanceUID, Action: ActionHash, Ref: "X.1-1"},
		{Tag: tag.SeriesInstanceUID, Action: ActionHash, Ref: "X.1-1"},
	})
	s.Register("clean_descriptors", []Rule{
		{Tag: tag.AccessionNumber, Action: ActionRemove},
		{Tag: tag.StudyDescription, Action: ActionRemove},
		{Tag: tag.SeriesDescription, Action: ActionRemove},
	})
	return s
}

// Register adds or replaces a named profile.
func (s *Store) Register(name string, rules []Rule) {
	s.profiles[name] = append([]Rule(nil), rules...)
}

// Get returns a copy of the named profile's rules. Unknown names
// resolve to an empty rule list, never an error.
func (s *Store) Get(name string) []Rule {
	return append([]Rule(nil), s.profiles[name]...)
}

// Names returns the registered profile names.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	return names
}

// Merge combines the named profiles into one rule list. When the same
// tag appears in more than one profile, the first occurrence wins and
// later ones are dropped; rules keep the order they were first seen.
func (s *Store) Merge(names ...string) []Rule {
	var merged []Rule
	seen := make(map[tag.Tag]bool)
	for _, name := range names {
		for _, rule := range s.Get(name) {
			if seen[rule.Tag] {
				continue
			}
			seen[rule.Tag] = true
			merged = append(merged, rule)
		}
	}
	return merged
}
