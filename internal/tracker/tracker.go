// Package tracker suppresses leads that were already delivered in prior
// runs, keyed by Dodge Report Number.
package tracker

import (
	"github.com/sells-group/leads-cli/internal/model"
)

// Set is an in-memory set of previously processed report numbers. It is
// loaded from the store at run start and handed back for persistence at
// run end; the engine itself never talks to the store.
type Set map[string]struct{}

// NewSet builds a Set from a slice of identifiers.
func NewSet(ids []string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the set's members as a slice, unordered.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// Partition splits leads into new ones and duplicates against seen.
//
// A lead is a duplicate if its report number is in seen or already
// appeared earlier in this batch — the feed occasionally repeats a record
// within one page. Output preserves the input's first-occurrence order.
// The returned set is seen plus the new leads' identifiers; it never
// shrinks. Leads without an identifier are passed through as new but are
// not recorded, since there is nothing to suppress on next run.
func Partition(leads []model.Lead, seen Set) (newLeads []model.Lead, updated Set, duplicates int) {
	updated = make(Set, len(seen)+len(leads))
	for id := range seen {
		updated[id] = struct{}{}
	}

	for _, lead := range leads {
		if lead.DRNumber == "" {
			newLeads = append(newLeads, lead)
			continue
		}
		if updated.Contains(lead.DRNumber) {
			duplicates++
			continue
		}
		updated[lead.DRNumber] = struct{}{}
		newLeads = append(newLeads, lead)
	}
	return newLeads, updated, duplicates
}
