// Package engine applies anonymization profiles to datasets under
// strict tri-state tag semantics.
//
// Action behavior per tag state:
//
//	REMOVE:  missing -> no-op, empty/present/sequence -> deleted
//	HASH:    missing -> no-op, empty -> hash(""), present -> hash(value)
//	EMPTY:   missing -> no-op, any value -> ""
//	KEEP:    no change in any state
//	REPLACE: missing -> no-op, empty/present -> replacement value
//
// No action ever creates a tag that was missing. This preserves the
// distinction between "not applicable" (missing) and "redacted"
// (present but empty or hashed).
//
// Sequences (VR=SQ) are nested datasets that are not recursively
// processed: HASH, EMPTY, and REPLACE skip them with a warning, REMOVE
// deletes the entire sequence.
package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"dicom-privacy-kit/internal/dataset"
	"dicom-privacy-kit/internal/profile"
)

// Engine applies profile rules to datasets. The salt feeds the hash
// action so two deployments produce unlinkable pseudonyms for the same
// value.
type Engine struct {
	salt  string
	store *profile.Store
}

// New returns an engine resolving named profiles against the given
// store.
func New(salt string, store *profile.Store) *Engine {
	if store == nil {
		store = profile.NewStore()
	}
	return &Engine{salt: salt, store: store}
}

// Options control how Apply treats the caller's dataset.
type Options struct {
	// InPlace mutates the caller's dataset. Otherwise Apply works on an
	// independent deep copy and the input is left untouched.
	InPlace bool
}

// Apply runs every rule in the selection against the dataset and
// returns the resulting dataset together with an audit log, one line
// per rule. Per-rule failures are isolated; a bad rule never aborts the
// remaining rules.
func (e *Engine) Apply(ds *dataset.Dataset, sel profile.Selection, opts Options) (*dataset.Dataset, []string) {
	if !opts.InPlace {
		ds = ds.Clone()
	}

	rules := sel.Resolve(e.store)
	auditLog := make([]string, 0, len(rules))
	for _, rule := range rules {
		auditLog = append(auditLog, e.applyRule(ds, rule))
	}

	return ds, auditLog
}

func (e *Engine) applyRule(ds *dataset.Dataset, rule profile.Rule) string {
	kw := dataset.Keyword(rule.Tag)

	switch rule.Action {
	case profile.ActionRemove:
		if !ds.Contains(rule.Tag) {
			log.Debug().Str("tag", kw).Msg("tag not present, no removal needed")
			return fmt.Sprintf("REMOVE: %s (not present)", kw)
		}
		ds.Delete(rule.Tag)
		return fmt.Sprintf("REMOVED: %s", kw)

	case profile.ActionHash:
		elem, ok := ds.Get(rule.Tag)
		if !ok {
			log.Debug().Str("tag", kw).Msg("tag not present, no hashing needed")
			return fmt.Sprintf("HASH: %s (not present)", kw)
		}
		if elem.Class() == dataset.ClassSequence {
			e.warnSequence(kw, "hashed")
			return fmt.Sprintf("HASH: %s (skipped: sequence)", kw)
		}
		ds.SetValue(rule.Tag, hashValue(elem.String(), e.salt))
		return fmt.Sprintf("HASHED: %s", kw)

	case profile.ActionEmpty:
		elem, ok := ds.Get(rule.Tag)
		if !ok {
			log.Debug().Str("tag", kw).Msg("tag not present, no emptying needed")
			return fmt.Sprintf("EMPTY: %s (not present)", kw)
		}
		if elem.Class() == dataset.ClassSequence {
			e.warnSequence(kw, "emptied")
			return fmt.Sprintf("EMPTY: %s (skipped: sequence)", kw)
		}
		ds.SetValue(rule.Tag, "")
		return fmt.Sprintf("EMPTIED: %s", kw)

	case profile.ActionKeep:
		return fmt.Sprintf("KEPT: %s", kw)

	case profile.ActionReplace:
		elem, ok := ds.Get(rule.Tag)
		if !ok {
			log.Debug().Str("tag", kw).Msg("tag not present, no replacement needed")
			return fmt.Sprintf("REPLACE: %s (not present)", kw)
		}
		if elem.Class() == dataset.ClassSequence {
			e.warnSequence(kw, "replaced")
			return fmt.Sprintf("REPLACE: %s (skipped: sequence)", kw)
		}
		ds.SetValue(rule.Tag, rule.Replacement)
		return fmt.Sprintf("REPLACED: %s -> %s", kw, rule.Replacement)

	default:
		log.Warn().Str("tag", kw).Str("action", string(rule.Action)).Msg("unknown action, rule skipped")
		return fmt.Sprintf("SKIPPED: %s (unknown action %q)", kw, rule.Action)
	}
}

func (e *Engine) warnSequence(kw, verb string) {
	log.Warn().Str("tag", kw).Msgf(
		"tag is a DICOM sequence (VR=SQ) and is not %s; nested datasets are not recursively processed. Use REMOVE to delete the sequence or KEEP to leave it unchanged", verb)
}
