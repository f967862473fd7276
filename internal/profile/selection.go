package profile

// Selection is a tagged choice between a named profile and an inline
// rule list. It is resolved exactly once, at the call boundary.
type Selection struct {
	name   string
	rules  []Rule
	inline bool
}

// ByName selects a stored profile. An unknown name resolves to an
// empty rule list.
func ByName(name string) Selection {
	return Selection{name: name}
}

// Inline selects an explicit rule list, used verbatim.
func Inline(rules []Rule) Selection {
	return Selection{rules: append([]Rule(nil), rules...), inline: true}
}

// Resolve returns the rule list for this selection.
func (sel Selection) Resolve(s *Store) []Rule {
	if sel.inline {
		return sel.rules
	}
	return s.Get(sel.name)
}
