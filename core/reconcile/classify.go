package reconcile

import (
	"fmt"
	"strings"
)

// presence captures which configured sources an item was merged from,
// split by relevance to the item's rule group. All slices keep the
// configured source order.
type presence struct {
	locations []string // all locations the item is present in
	unlisted  []string // all unlisted sources the item is present in
	missing   []string // all locations the item is absent from

	relevantLocations []string // present, matching the item's group
	relevantUnlisted  []string // present, matching the item's group
	missingRelevant   []string // absent locations of the item's group

	otherLocations []string // present locations of the opposite group
	otherUnlisted  []string // present unlisted of the opposite group
}

func computePresence(it *Item, cfg RunConfig) presence {
	var p presence
	group := it.Group
	other := GroupDefault
	if group == GroupDefault {
		other = GroupSpecial
	}

	for _, name := range cfg.LocationNames {
		if it.PresentIn(name) {
			p.locations = append(p.locations, name)
			if cfg.locationGroup(name) == group {
				p.relevantLocations = append(p.relevantLocations, name)
			} else {
				p.otherLocations = append(p.otherLocations, name)
			}
		} else {
			p.missing = append(p.missing, name)
			if cfg.locationGroup(name) == group {
				p.missingRelevant = append(p.missingRelevant, name)
			}
		}
	}
	for _, name := range cfg.UnlistedNames {
		if !it.PresentIn(name) {
			continue
		}
		p.unlisted = append(p.unlisted, name)
		switch cfg.unlistedGroup(name) {
		case group:
			p.relevantUnlisted = append(p.relevantUnlisted, name)
		case other:
			p.otherUnlisted = append(p.otherUnlisted, name)
		}
	}
	return p
}

// inAnyRelevantUnlisted is the report-facing relevance flag: the item
// counts as "in unlisted" only when it also stands in a location of its
// own group, so stray unlisted rows do not read as deliberate
// exclusions.
func (p presence) inAnyRelevantUnlisted() bool {
	return len(p.relevantLocations) > 0 && len(p.relevantUnlisted) > 0
}

// classify assigns the final status and appends the remaining remark
// trail. Conflict detection must have run already; rule evaluation is
// skipped entirely for items carrying the critical duplicate-barcode
// tag.
func classify(it *Item, cfg RunConfig) {
	p := computePresence(it, cfg)
	critical := it.Conflicts.Has(ConflictDuplicateBarcodeAcrossSKUs)
	qualityIssues := it.Conflicts.HasQualityIssue()

	var reasons []string
	if !critical {
		reasons = evaluateRules(it, cfg, p)
	}

	switch {
	case critical:
		it.Status = StatusCriticalDuplicateBarcode
	case len(p.locations) == 0 && len(p.unlisted) == 0:
		it.Status = StatusNoData
		it.addRemark("Item not found in any location or unlisted source")
	case len(reasons) > 0:
		it.Status = StatusRuleViolation
		it.QualityAnnotated = qualityIssues
		it.Remarks = append(it.Remarks, reasons...)
	case qualityIssues:
		it.Status = StatusDataIssues
		it.addRemark("Item has data quality issues (short barcode/duplicates/identifier differences)")
	default:
		it.Status = StatusGood
		switch {
		case len(p.unlisted) == 0:
			it.addRemark("Item correctly placed in locations and absent from unlisted sources")
		case len(p.locations) == 0:
			it.addRemark("Item correctly listed only in unlisted sources: " + strings.Join(p.unlisted, ", "))
		default:
			it.addRemark("Item follows all location/unlisted pairing rules")
		}
	}

	// Presence summary, always last, for traceability.
	if len(p.locations) > 0 {
		it.addRemark("Present in locations: " + strings.Join(p.locations, ", "))
	}
	if len(p.unlisted) > 0 {
		it.addRemark("Present in unlisted: " + strings.Join(p.unlisted, ", "))
	}
	if len(p.missing) > 0 && len(p.locations) > 0 {
		it.addRemark("Missing from locations: " + strings.Join(p.missing, ", "))
	}
}

// evaluateRules checks the four presence rules against the item's
// group. Every triggered rule contributes one reason string; any reason
// makes the item a rule violation.
func evaluateRules(it *Item, cfg RunConfig, p presence) []string {
	var reasons []string
	rs := cfg.RuleSet

	// A stocked item cannot also be declared excluded: presence in a
	// relevant location and its counterpart unlisted source contradict
	// each other.
	if len(p.relevantLocations) > 0 && len(p.relevantUnlisted) > 0 {
		reasons = append(reasons, fmt.Sprintf("Item should not appear in both %s and %s",
			p.relevantLocations[0], p.relevantUnlisted[0]))
	}

	// Leakage across groups: present in the opposite group's unlisted
	// sheet while also stocked in that group's own locations.
	if len(p.otherUnlisted) > 0 && len(p.otherLocations) > 0 {
		reasons = append(reasons, fmt.Sprintf("Item in unlisted %s should not appear in locations: %s",
			p.otherUnlisted[0], strings.Join(p.otherLocations, ", ")))
	}

	// Location consistency: stocked somewhere in its group but missing
	// elsewhere, without the counterpart unlisted sheet excusing the
	// absence.
	if len(p.relevantLocations) > 0 && len(p.missingRelevant) > 0 && len(p.relevantUnlisted) == 0 {
		reasons = append(reasons, "Item missing from locations: "+strings.Join(p.missingRelevant, ", "))
	}

	// Orphans: an item that its own group neither stocks nor excludes.
	if it.Group == GroupSpecial {
		if len(p.relevantLocations) == 0 && len(p.relevantUnlisted) == 0 {
			reasons = append(reasons, fmt.Sprintf("%s item missing from both its %s location and %s unlisted",
				rs.SpecialLabel(), rs.SpecialLabel(), rs.CounterpartLabel()))
		}
	} else if len(p.locations) == 0 {
		excused := len(p.relevantUnlisted) > 0
		if rs.OrphanAnyUnlisted() {
			excused = len(p.unlisted) > 0
		}
		if !excused {
			reasons = append(reasons, "Item missing from all locations and its unlisted sources")
		}
	}

	return reasons
}
