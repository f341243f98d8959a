package reconcile

import "strings"

// RuleSet selects which keyword pattern defines the special rule group
// and which unlisted-source pattern is its counterpart. The two presets
// are mutually exclusive and chosen once per run.
type RuleSet string

const (
	// RuleSetStandard pairs cosmetics locations with the WEB unlisted
	// sheet: items from a location whose name contains "cos" form the
	// special group, and their exclusion counterpart is any unlisted
	// source whose name contains "web".
	RuleSetStandard RuleSet = "standard"

	// RuleSetOGF pairs the OGF location with the OGF unlisted sheet:
	// any source name containing "ogf" marks the special group on both
	// sides.
	RuleSetOGF RuleSet = "ogf"
)

// Valid reports whether the rule set is one of the known presets.
func (r RuleSet) Valid() bool {
	return r == RuleSetStandard || r == RuleSetOGF
}

// SpecialSource reports whether a source name matches the special-group
// keyword pattern. Matching is substring-based and case-insensitive. An
// item becomes part of the special group the first time it merges a
// record from a matching source.
func (r RuleSet) SpecialSource(name string) bool {
	n := strings.ToLower(name)
	switch r {
	case RuleSetOGF:
		return strings.Contains(n, "ogf")
	default:
		return strings.Contains(n, "cos")
	}
}

// CounterpartUnlisted reports whether an unlisted source name is the
// exclusion counterpart of the special group.
func (r RuleSet) CounterpartUnlisted(name string) bool {
	n := strings.ToLower(name)
	switch r {
	case RuleSetOGF:
		return strings.Contains(n, "ogf")
	default:
		return strings.Contains(n, "web")
	}
}

// OrphanAnyUnlisted reports whether presence in any unlisted source,
// counterpart or not, excuses a default-group item that is absent from
// every location. The standard rule set accepts any unlisted source;
// the OGF rule set only accepts the default-group ones.
func (r RuleSet) OrphanAnyUnlisted() bool {
	return r != RuleSetOGF
}

// SpecialLabel is the human-readable name of the special group, used in
// remark text.
func (r RuleSet) SpecialLabel() string {
	if r == RuleSetOGF {
		return "OGF"
	}
	return "Cosmetics"
}

// CounterpartLabel is the human-readable name of the special group's
// unlisted counterpart.
func (r RuleSet) CounterpartLabel() string {
	if r == RuleSetOGF {
		return "OGF"
	}
	return "WEB"
}

// RunConfig carries the per-invocation configuration: the active rule
// set and the ordered, disjoint source name lists. It is an immutable
// value passed explicitly through every pass, never shared process
// state, so concurrent runs cannot observe each other's configuration.
type RunConfig struct {
	RuleSet       RuleSet
	LocationNames []string
	UnlistedNames []string
}

// locationGroup returns the rule group a location source belongs to.
func (c RunConfig) locationGroup(name string) RuleGroup {
	if c.RuleSet.SpecialSource(name) {
		return GroupSpecial
	}
	return GroupDefault
}

// unlistedGroup returns the rule group an unlisted source belongs to.
func (c RunConfig) unlistedGroup(name string) RuleGroup {
	if c.RuleSet.CounterpartUnlisted(name) {
		return GroupSpecial
	}
	return GroupDefault
}

// relevantLocations returns, in configured order, the location sources
// belonging to the given rule group.
func (c RunConfig) relevantLocations(group RuleGroup) []string {
	out := make([]string, 0, len(c.LocationNames))
	for _, name := range c.LocationNames {
		if c.locationGroup(name) == group {
			out = append(out, name)
		}
	}
	return out
}

// relevantUnlisted returns, in configured order, the unlisted sources
// belonging to the given rule group.
func (c RunConfig) relevantUnlisted(group RuleGroup) []string {
	out := make([]string, 0, len(c.UnlistedNames))
	for _, name := range c.UnlistedNames {
		if c.unlistedGroup(name) == group {
			out = append(out, name)
		}
	}
	return out
}
