// Package rules evaluates mapped leads against the business-editable
// property-type rule set: which project-type categories to include, and
// which CRM industry/segment codes each category maps to.
package rules

import (
	"strings"

	"go.uber.org/zap"
)

// Rule is the business decision for one project-type category.
type Rule struct {
	// Category preserves the sheet's original casing for upstream search
	// criteria; lookup always goes through the normalized key.
	Category     string `yaml:"-"`
	Include      bool   `yaml:"include"`
	Industry     string `yaml:"industry"`
	IndustryCode string `yaml:"industry_code"`
	Segment      string `yaml:"segment"`
	SegmentCode  string `yaml:"segment_code"`
}

// RuleSet maps case-normalized project-type categories to rules. It is an
// immutable snapshot for the duration of a run.
type RuleSet struct {
	rules map[string]Rule
}

// Decision is the outcome of evaluating one lead's category.
type Decision struct {
	Keep         bool
	IndustryCode string
	SegmentCode  string
}

// New builds a RuleSet from a category→Rule map. Keys are case-normalized.
func New(rules map[string]Rule) *RuleSet {
	normalized := make(map[string]Rule, len(rules))
	for category, rule := range rules {
		key := categoryKey(category)
		if key == "" {
			continue
		}
		if rule.Category == "" {
			rule.Category = strings.TrimSpace(category)
		}
		normalized[key] = rule
	}
	return &RuleSet{rules: normalized}
}

// Len returns the number of categories in the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Categories returns every category key in the set, unordered.
func (rs *RuleSet) Categories() []string {
	out := make([]string, 0, len(rs.rules))
	for k := range rs.rules {
		out = append(out, k)
	}
	return out
}

// Decide evaluates a project-type category against the rule set.
//
// Unknown categories are excluded. This fail-closed default is a
// deliberate policy, not an accident: a stale or incomplete rule sheet
// must suppress leads rather than leak unvetted ones to sales. An empty
// rule set therefore excludes everything.
func (rs *RuleSet) Decide(category string) Decision {
	key := categoryKey(category)
	if key == "" {
		zap.L().Warn("rules: lead has no project-type category, excluding")
		return Decision{}
	}

	rule, ok := rs.rules[key]
	if !ok {
		zap.L().Info("rules: unknown category, excluding", zap.String("category", category))
		return Decision{}
	}
	if !rule.Include {
		return Decision{}
	}

	return Decision{
		Keep:         true,
		IndustryCode: rule.IndustryCode,
		SegmentCode:  rule.SegmentCode,
	}
}

// Included returns the original-cased categories with Include set, for
// building the upstream search criteria. Order is not significant.
func (rs *RuleSet) Included() []string {
	var out []string
	for key, rule := range rs.rules {
		if !rule.Include {
			continue
		}
		if rule.Category != "" {
			out = append(out, rule.Category)
		} else {
			out = append(out, key)
		}
	}
	return out
}

func categoryKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
