package calculator

import (
	"github.com/shopspring/decimal"
)

// RuleCategory names one of the eleven pricing rule tables. The value is the
// table's JSON key inside pricingRules.
type RuleCategory string

const (
	ProjectTypeMultipliers RuleCategory = "projectTypeMultipliers"
	IndustryMultipliers    RuleCategory = "industryMultipliers"
	ScopeMultipliers       RuleCategory = "scopeMultipliers"
	TeamMultipliers        RuleCategory = "teamMultipliers"
	TimelineMultipliers    RuleCategory = "timelineMultipliers"
	FeatureCosts           RuleCategory = "featureCosts"
	ServiceCosts           RuleCategory = "serviceCosts"
	PlatformCosts          RuleCategory = "platformCosts"
	IntegrationCosts       RuleCategory = "integrationCosts"
	TechStackCosts         RuleCategory = "techStackCosts"
	SupportCosts           RuleCategory = "supportCosts"
)

// RuleCategories lists every category in pricing order of first use.
var RuleCategories = []RuleCategory{
	ProjectTypeMultipliers,
	IndustryMultipliers,
	ServiceCosts,
	FeatureCosts,
	PlatformCosts,
	IntegrationCosts,
	TechStackCosts,
	ScopeMultipliers,
	TeamMultipliers,
	TimelineMultipliers,
	SupportCosts,
}

// ParseRuleCategory maps a wire name to its category.
func ParseRuleCategory(name string) (RuleCategory, bool) {
	for _, c := range RuleCategories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// IsMultiplier reports whether the category scales the running price.
func (c RuleCategory) IsMultiplier() bool {
	switch c {
	case ProjectTypeMultipliers, IndustryMultipliers, ScopeMultipliers, TeamMultipliers, TimelineMultipliers:
		return true
	}
	return false
}

// Identity is the value a missing key resolves to: 1 for multipliers, 0 for costs.
func (c RuleCategory) Identity() decimal.Decimal {
	if c.IsMultiplier() {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

// RuleTable maps option keys to a factor or a cost.
type RuleTable map[string]decimal.Decimal

// PricingRules holds the eleven rule tables.
type PricingRules struct {
	ProjectTypeMultipliers RuleTable `json:"projectTypeMultipliers,omitempty"`
	IndustryMultipliers    RuleTable `json:"industryMultipliers,omitempty"`
	ScopeMultipliers       RuleTable `json:"scopeMultipliers,omitempty"`
	TeamMultipliers        RuleTable `json:"teamMultipliers,omitempty"`
	TimelineMultipliers    RuleTable `json:"timelineMultipliers,omitempty"`
	FeatureCosts           RuleTable `json:"featureCosts,omitempty"`
	ServiceCosts           RuleTable `json:"serviceCosts,omitempty"`
	PlatformCosts          RuleTable `json:"platformCosts,omitempty"`
	IntegrationCosts       RuleTable `json:"integrationCosts,omitempty"`
	TechStackCosts         RuleTable `json:"techStackCosts,omitempty"`
	SupportCosts           RuleTable `json:"supportCosts,omitempty"`
}

func (r *PricingRules) slot(c RuleCategory) *RuleTable {
	switch c {
	case ProjectTypeMultipliers:
		return &r.ProjectTypeMultipliers
	case IndustryMultipliers:
		return &r.IndustryMultipliers
	case ScopeMultipliers:
		return &r.ScopeMultipliers
	case TeamMultipliers:
		return &r.TeamMultipliers
	case TimelineMultipliers:
		return &r.TimelineMultipliers
	case FeatureCosts:
		return &r.FeatureCosts
	case ServiceCosts:
		return &r.ServiceCosts
	case PlatformCosts:
		return &r.PlatformCosts
	case IntegrationCosts:
		return &r.IntegrationCosts
	case TechStackCosts:
		return &r.TechStackCosts
	case SupportCosts:
		return &r.SupportCosts
	}
	return nil
}

// Table returns the table for c, or nil for an unknown category.
func (r *PricingRules) Table(c RuleCategory) RuleTable {
	if s := r.slot(c); s != nil {
		return *s
	}
	return nil
}

// SetTable replaces the table for c. It reports false for an unknown category.
func (r *PricingRules) SetTable(c RuleCategory, t RuleTable) bool {
	s := r.slot(c)
	if s == nil {
		return false
	}
	*s = t
	return true
}

// Lookup resolves key in category c. Missing keys resolve to the category
// identity, and so does a stored multiplier of exactly zero.
func (r *PricingRules) Lookup(c RuleCategory, key string) decimal.Decimal {
	v, ok := r.Table(c)[key]
	if !ok {
		return c.Identity()
	}
	if c.IsMultiplier() && v.IsZero() {
		return c.Identity()
	}
	return v
}
