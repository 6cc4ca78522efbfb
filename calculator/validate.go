package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Validate reports every structural problem in c. A calculator that fails
// validation can still be priced; validation guards admin writes and seed
// imports.
func (c *Calculator) Validate() error {
	var err error

	if c.Currency != "" && !ValidCurrency(c.Currency) {
		err = multierr.Append(err, fmt.Errorf("currency %q is not an ISO 4217 code", c.Currency))
	}
	if c.BasePrice.IsNegative() {
		err = multierr.Append(err, fmt.Errorf("basePrice must not be negative"))
	}

	seen := make(map[string]bool, len(c.Steps))
	for i, step := range c.Steps {
		where := fmt.Sprintf("steps[%d]", i)
		if step.ID == "" {
			err = multierr.Append(err, fmt.Errorf("%s: id is required", where))
		} else if seen[step.ID] {
			err = multierr.Append(err, fmt.Errorf("%s: duplicate step id %q", where, step.ID))
		}
		seen[step.ID] = true
		if !step.Type.Valid() {
			err = multierr.Append(err, fmt.Errorf("%s: unknown step type %q", where, step.Type))
		}
		if cerr := step.Condition.Err(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", where, cerr))
		}
		keys := make(map[string]bool, len(step.Options))
		for _, opt := range step.Options {
			if keys[opt.Key] {
				err = multierr.Append(err, fmt.Errorf("%s: duplicate option key %q", where, opt.Key))
			}
			keys[opt.Key] = true
		}
	}

	for _, cat := range RuleCategories {
		for key, v := range c.PricingRules.Table(cat) {
			if cat.IsMultiplier() && !v.IsPositive() {
				err = multierr.Append(err, fmt.Errorf("pricingRules.%s[%q]: factor must be positive", cat, key))
			}
			if !cat.IsMultiplier() && v.IsNegative() {
				err = multierr.Append(err, fmt.Errorf("pricingRules.%s[%q]: cost must not be negative", cat, key))
			}
		}
	}

	return multierr.Append(err, c.PricingConfig.validate())
}

func (p PricingConfig) validate() error {
	var err error
	one := decimal.NewFromInt(1)

	if p.Min().GreaterThan(p.Max()) {
		err = multierr.Append(err, fmt.Errorf("pricingConfig: minPrice %s exceeds maxPrice %s", p.Min(), p.Max()))
	}
	if v := p.Variance(); v.IsNegative() || v.GreaterThan(one) {
		err = multierr.Append(err, fmt.Errorf("pricingConfig: estimateVariance %s outside [0,1]", v))
	}
	if g := p.GST(); g.IsNegative() || g.GreaterThan(one) {
		err = multierr.Append(err, fmt.Errorf("pricingConfig: gstRate %s outside [0,1]", g))
	}
	switch p.Mode() {
	case DiscountInformational, DiscountApply:
	default:
		err = multierr.Append(err, fmt.Errorf("pricingConfig: unknown discountMode %q", p.DiscountMode))
	}
	for i, rule := range p.DiscountRules {
		if rule.DiscountPercent.IsNegative() || rule.DiscountPercent.GreaterThan(hundred) {
			err = multierr.Append(err, fmt.Errorf("pricingConfig.discountRules[%d]: discountPercent outside [0,100]", i))
		}
		if cerr := rule.Condition.Err(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("pricingConfig.discountRules[%d]: %w", i, cerr))
		}
	}
	return err
}
