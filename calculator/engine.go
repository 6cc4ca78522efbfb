package calculator

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// fold is the running state of one calculation.
type fold struct {
	rules *PricingRules
	price decimal.Decimal
	bd    Breakdown
}

// multiply applies a multiplier category to key. With skipIdentity set, a
// factor of exactly 1 is neither applied nor recorded.
func (f *fold) multiply(c RuleCategory, key, label, description string, skipIdentity bool) {
	factor := f.rules.Lookup(c, key)
	if skipIdentity && factor.Equal(decimal.NewFromInt(1)) {
		return
	}
	f.price = f.price.Mul(factor)
	f.bd.Adjustments = append(f.bd.Adjustments, Adjustment{
		Type:        label,
		Factor:      factor,
		Description: description,
	})
}

// add applies an additive category to each key. Only positive costs count.
func (f *fold) add(c RuleCategory, keys ...string) {
	items := f.bd.Items(c)
	for _, key := range keys {
		cost := f.rules.Lookup(c, key)
		if !cost.IsPositive() {
			continue
		}
		f.price = f.price.Add(cost)
		*items = append(*items, LineItem{
			Category:    c,
			Key:         key,
			Cost:        cost,
			Description: describeItem(c, key),
		})
	}
}

// Calculate prices sel against calc. The steps run in a fixed order because
// multipliers compound on the running price; rounding happens once, after
// clamping.
func Calculate(calc *Calculator, sel Selections) PriceResult {
	f := &fold{
		rules: &calc.PricingRules,
		price: calc.BasePrice,
		bd:    newBreakdown(calc.BasePrice),
	}

	if pt := sel.String(FieldProjectType); pt != "" {
		f.multiply(ProjectTypeMultipliers, pt, "Project Type", pt+" project complexity", false)
	}
	for _, industry := range sel.Strings(FieldSelectedIndustries) {
		f.multiply(IndustryMultipliers, industry, "Industry: "+industry, industry+" industry complexity", true)
	}

	f.add(ServiceCosts, sel.Strings(FieldSelectedServices)...)
	f.add(FeatureCosts, sel.Strings(FieldSelectedFeatures)...)
	f.add(PlatformCosts, sel.Strings(FieldSelectedPlatforms)...)
	f.add(IntegrationCosts, sel.Strings(FieldSelectedIntegrations)...)
	f.add(TechStackCosts, sel.Strings(FieldSelectedTechStack)...)

	if scope := sel.String(FieldScope); scope != "" {
		f.multiply(ScopeMultipliers, scope, "Project Scope", scope+" scope complexity", false)
	}
	if team := sel.String(FieldTeam); team != "" {
		f.multiply(TeamMultipliers, team, "Team Size", team+" team configuration", false)
	}
	if timeline := sel.String(FieldTimeline); timeline != "" {
		f.multiply(TimelineMultipliers, timeline, "Timeline", timeline+" timeline requirement", false)
	}
	if support := sel.String(FieldSupport); support != "" {
		f.add(SupportCosts, support)
	}

	cfg := calc.PricingConfig
	f.applyDiscounts(cfg, sel)

	price := decimal.Max(cfg.Min(), decimal.Min(cfg.Max(), f.price))

	one := decimal.NewFromInt(1)
	variance := cfg.Variance()
	finalPrice := price.Round(0)
	low := finalPrice.Mul(one.Sub(variance)).Round(0)
	high := finalPrice.Mul(one.Add(variance)).Round(0)
	gst := finalPrice.Mul(cfg.GST()).Round(0)
	total := finalPrice.Add(gst)

	code := calc.CurrencyCode()
	return PriceResult{
		BasePrice:      calc.BasePrice,
		FinalPrice:     finalPrice,
		LowEstimate:    low,
		HighEstimate:   high,
		GSTAmount:      gst,
		TotalWithGST:   total,
		Currency:       code,
		EstimateRange:  FormatRange(low, high, code),
		FormattedPrice: FormatAmount(finalPrice, code),
		FormattedTotal: FormatAmount(total, code),
		Breakdown:      f.bd,
	}
}

// applyDiscounts records every rule whose condition holds and, in apply
// mode, reduces the running price by each percentage in rule order.
func (f *fold) applyDiscounts(cfg PricingConfig, sel Selections) {
	apply := cfg.Mode() == DiscountApply
	for _, rule := range cfg.DiscountRules {
		if !rule.Condition.Holds(sel) {
			continue
		}
		amount := f.price.Mul(rule.DiscountPercent).Div(hundred)
		if apply {
			f.price = f.price.Sub(amount)
		}
		f.bd.Discounts = append(f.bd.Discounts, AppliedDiscount{
			Description:     rule.Description,
			DiscountPercent: rule.DiscountPercent,
			Amount:          amount.Round(0),
			Applied:         apply,
		})
	}
}
