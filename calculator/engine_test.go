package calculator

import (
	"encoding/json"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func sampleCalculator() *Calculator {
	return &Calculator{
		Title:     "Project Cost Calculator",
		Currency:  "INR",
		BasePrice: d("100000"),
		PricingRules: PricingRules{
			ProjectTypeMultipliers: RuleTable{"website": d("0.5"), "web-app": d("1"), "mobile-app": d("1.3")},
			IndustryMultipliers:    RuleTable{"Healthcare": d("1.3"), "Retail": d("1"), "Finance": d("1.4")},
			ServiceCosts:           RuleTable{"UI/UX Design": d("30000"), "QA": d("0")},
			FeatureCosts:           RuleTable{"Authentication": d("15000"), "Payment processing": d("35000")},
			PlatformCosts:          RuleTable{"iOS": d("40000")},
			IntegrationCosts:       RuleTable{"Stripe": d("12000")},
			TechStackCosts:         RuleTable{"Kubernetes": d("20000")},
			ScopeMultipliers:       RuleTable{"mvp": d("0.7"), "enterprise": d("2.0"), "standard": d("1")},
			TeamMultipliers:        RuleTable{"dedicated": d("1.2")},
			TimelineMultipliers:    RuleTable{"urgent": d("1.5")},
			SupportCosts:           RuleTable{"premium": d("50000")},
		},
	}
}

func TestCalculateScenarios(t *testing.T) {
	t.Run("baseline with no selections", func(t *testing.T) {
		calc := &Calculator{BasePrice: d("50000")}
		res := Calculate(calc, Selections{})

		assertDecimal(t, "50000", res.FinalPrice)
		assertDecimal(t, "9000", res.GSTAmount)
		assertDecimal(t, "59000", res.TotalWithGST)
		assertDecimal(t, "40000", res.LowEstimate)
		assertDecimal(t, "60000", res.HighEstimate)
		assert.Equal(t, "INR", res.Currency)
		assert.Empty(t, res.Breakdown.Adjustments)
		assert.Equal(t, "₹50,000", res.FormattedPrice)
		assert.Equal(t, "₹59,000", res.FormattedTotal)
		assert.Equal(t, "₹40,000 - ₹60,000", res.EstimateRange)
	})

	t.Run("multipliers stack on the running price", func(t *testing.T) {
		res := Calculate(sampleCalculator(), Selections{"projectType": "mobile-app", "scope": "enterprise"})

		assertDecimal(t, "260000", res.FinalPrice)
		require.Len(t, res.Breakdown.Adjustments, 2)
		assert.Equal(t, "Project Type", res.Breakdown.Adjustments[0].Type)
		assert.Equal(t, "mobile-app project complexity", res.Breakdown.Adjustments[0].Description)
		assert.Equal(t, "Project Scope", res.Breakdown.Adjustments[1].Type)
		assertDecimal(t, "2", res.Breakdown.Adjustments[1].Factor)
	})

	t.Run("costs accumulate", func(t *testing.T) {
		calc := sampleCalculator()
		calc.BasePrice = d("50000")
		res := Calculate(calc, Selections{
			"selectedFeatures": []any{"Authentication", "Payment processing"},
		})

		assertDecimal(t, "100000", res.FinalPrice)
		require.Len(t, res.Breakdown.Features, 2)
		assert.Equal(t, "Authentication", res.Breakdown.Features[0].Key)
		assert.Equal(t, "Authentication feature implementation", res.Breakdown.Features[0].Description)
		assertDecimal(t, "35000", res.Breakdown.Features[1].Cost)
	})

	t.Run("clamped to min price", func(t *testing.T) {
		calc := sampleCalculator()
		calc.BasePrice = d("10000")
		calc.PricingConfig.MinPrice = Decimal(25000)
		res := Calculate(calc, Selections{"projectType": "website"})

		assertDecimal(t, "25000", res.FinalPrice)
		assertDecimal(t, "0.5", res.Breakdown.Adjustments[0].Factor)
	})

	t.Run("clamped to max price", func(t *testing.T) {
		calc := sampleCalculator()
		calc.PricingConfig.MaxPrice = Decimal(150000)
		res := Calculate(calc, Selections{"projectType": "mobile-app", "scope": "enterprise"})

		assertDecimal(t, "150000", res.FinalPrice)
	})
}

func TestCalculateFoldOrder(t *testing.T) {
	sel := Selections{
		"projectType":          "mobile-app",
		"selectedIndustries":   []any{"Healthcare", "Retail"},
		"selectedServices":     []any{"UI/UX Design", "QA"},
		"selectedFeatures":     []any{"Authentication"},
		"selectedPlatforms":    []any{"iOS"},
		"selectedIntegrations": []any{"Stripe"},
		"selectedTechStack":    []any{"Kubernetes"},
		"scope":                "mvp",
		"team":                 "dedicated",
		"timeline":             "urgent",
		"support":              "premium",
	}
	res := Calculate(sampleCalculator(), sel)

	// ((100000*1.3*1.3 + 30000+15000+40000+12000+20000) * 0.7*1.2*1.5) + 50000
	// = (169000 + 117000) * 1.26 + 50000 = 410360
	assertDecimal(t, "410360", res.FinalPrice)
	assertDecimal(t, "73865", res.GSTAmount)
	assertDecimal(t, "484225", res.TotalWithGST)
	assertDecimal(t, "328288", res.LowEstimate)
	assertDecimal(t, "492432", res.HighEstimate)
	assert.Equal(t, "₹4,10,360", res.FormattedPrice)

	types := make([]string, 0, len(res.Breakdown.Adjustments))
	for _, adj := range res.Breakdown.Adjustments {
		types = append(types, adj.Type)
	}
	// Retail has factor 1 and is skipped; scope/team/timeline always record.
	assert.Equal(t, []string{"Project Type", "Industry: Healthcare", "Project Scope", "Team Size", "Timeline"}, types)

	// QA costs 0 and is not itemized.
	require.Len(t, res.Breakdown.Services, 1)
	assert.Equal(t, "UI/UX Design service", res.Breakdown.Services[0].Description)
	require.Len(t, res.Breakdown.Support, 1)
	assert.Equal(t, "premium support package", res.Breakdown.Support[0].Description)
	require.Len(t, res.Breakdown.TechStack, 1)
	assert.Equal(t, "Kubernetes technology implementation", res.Breakdown.TechStack[0].Description)
}

func TestCalculateNeutralMultipliersStillRecorded(t *testing.T) {
	res := Calculate(sampleCalculator(), Selections{"scope": "standard", "selectedIndustries": []any{"Retail"}})

	require.Len(t, res.Breakdown.Adjustments, 1)
	assert.Equal(t, "Project Scope", res.Breakdown.Adjustments[0].Type)
	assertDecimal(t, "1", res.Breakdown.Adjustments[0].Factor)
}

func TestCalculateAbsentMultiplierTablesRecordIdentity(t *testing.T) {
	calc := &Calculator{BasePrice: d("100000")}
	res := Calculate(calc, Selections{
		"projectType":        "web-app",
		"selectedIndustries": []any{"Healthcare"},
		"scope":              "mvp",
		"team":               "dedicated",
		"timeline":           "urgent",
		"selectedFeatures":   []any{"Chat"},
	})

	assertDecimal(t, "100000", res.FinalPrice)
	var types []string
	for _, adj := range res.Breakdown.Adjustments {
		assertDecimal(t, "1", adj.Factor)
		types = append(types, adj.Type)
	}
	assert.Equal(t, []string{"Project Type", "Project Scope", "Team Size", "Timeline"}, types)
	assert.Empty(t, res.Breakdown.Features)
}

func TestCalculateZeroFactorIsIdentity(t *testing.T) {
	calc := sampleCalculator()
	calc.PricingRules.ScopeMultipliers["broken"] = decimal.Zero
	res := Calculate(calc, Selections{"scope": "broken"})

	assertDecimal(t, "100000", res.FinalPrice)
	assertDecimal(t, "1", res.Breakdown.Adjustments[0].Factor)
}

func TestCalculateExplicitZeroConfigHonored(t *testing.T) {
	calc := &Calculator{BasePrice: d("1000")}
	calc.PricingConfig.MinPrice = Decimal(0)
	calc.PricingConfig.GSTRate = Decimal(0)
	calc.PricingConfig.EstimateVariance = Decimal(0)
	res := Calculate(calc, Selections{})

	assertDecimal(t, "1000", res.FinalPrice)
	assertDecimal(t, "0", res.GSTAmount)
	assertDecimal(t, "1000", res.LowEstimate)
	assertDecimal(t, "1000", res.HighEstimate)
}

func TestCalculateDiscounts(t *testing.T) {
	rules := []DiscountRule{
		{
			Condition:       When(Equals{Field: "scope", Value: "mvp"}),
			DiscountPercent: d("10"),
			Description:     "MVP Discount",
		},
		{
			Condition:       When(Includes{Field: "selectedIndustries", Value: "Startup"}),
			DiscountPercent: d("15"),
			Description:     "Startup Discount",
		},
	}
	sel := Selections{"scope": "mvp", "selectedIndustries": []any{"Startup"}}

	t.Run("informational by default", func(t *testing.T) {
		calc := sampleCalculator()
		calc.PricingConfig.DiscountRules = rules
		res := Calculate(calc, sel)

		assertDecimal(t, "70000", res.FinalPrice)
		require.Len(t, res.Breakdown.Discounts, 2)
		assert.False(t, res.Breakdown.Discounts[0].Applied)
		assertDecimal(t, "7000", res.Breakdown.Discounts[0].Amount)
	})

	t.Run("applied before clamping", func(t *testing.T) {
		calc := sampleCalculator()
		calc.PricingConfig.DiscountRules = rules
		calc.PricingConfig.DiscountMode = DiscountApply
		res := Calculate(calc, sel)

		// 70000 * 0.9 * 0.85
		assertDecimal(t, "53550", res.FinalPrice)
		require.Len(t, res.Breakdown.Discounts, 2)
		assert.True(t, res.Breakdown.Discounts[1].Applied)
		assertDecimal(t, "9450", res.Breakdown.Discounts[1].Amount)

		calc.PricingConfig.MinPrice = Decimal(60000)
		assertDecimal(t, "60000", Calculate(calc, sel).FinalPrice)
	})

	t.Run("unmatched rules are not listed", func(t *testing.T) {
		calc := sampleCalculator()
		calc.PricingConfig.DiscountRules = rules
		res := Calculate(calc, Selections{"scope": "enterprise"})
		assert.Empty(t, res.Breakdown.Discounts)
	})
}

func TestCalculateDeterministic(t *testing.T) {
	sel := Selections{
		"projectType":       "mobile-app",
		"selectedFeatures":  []any{"Authentication", "Payment processing"},
		"selectedPlatforms": []any{"iOS"},
		"timeline":          "urgent",
	}
	first, err := json.Marshal(Calculate(sampleCalculator(), sel))
	require.NoError(t, err)
	second, err := json.Marshal(Calculate(sampleCalculator(), sel))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestCalculateIgnoresUnknownKeys(t *testing.T) {
	fake := faker.New()
	calc := sampleCalculator()
	known := Selections{
		"projectType":      "mobile-app",
		"selectedFeatures": []any{"Authentication"},
		"scope":            "mvp",
	}
	want := Calculate(calc, known).FinalPrice

	for i := 0; i < 50; i++ {
		noisy := Selections{
			"projectType":          "mobile-app",
			"selectedFeatures":     []any{"Authentication", "unknown-" + fake.UUID().V4()},
			"selectedIntegrations": []any{"unknown-" + fake.Lorem().Word()},
			"selectedIndustries":   []any{"unknown-" + fake.Company().Name()},
			"scope":                "mvp",
		}
		assert.True(t, want.Equal(Calculate(calc, noisy).FinalPrice))
	}
}

func TestCalculateBounds(t *testing.T) {
	fake := faker.New()
	keys := []string{"a", "b", "c", "d"}

	for i := 0; i < 200; i++ {
		calc := &Calculator{
			BasePrice: decimal.NewFromFloat(fake.Float64(2, 0, 2000000)),
			PricingRules: PricingRules{
				ProjectTypeMultipliers: RuleTable{},
				FeatureCosts:           RuleTable{},
				ScopeMultipliers:       RuleTable{},
			},
		}
		for _, k := range keys {
			calc.PricingRules.ProjectTypeMultipliers[k] = decimal.NewFromFloat(fake.Float64(2, 0, 3))
			calc.PricingRules.FeatureCosts[k] = decimal.NewFromFloat(fake.Float64(0, 0, 500000))
			calc.PricingRules.ScopeMultipliers[k] = decimal.NewFromFloat(fake.Float64(2, 0, 3))
		}
		minPrice := fake.IntBetween(0, 100000)
		maxPrice := minPrice + fake.IntBetween(0, 4000000)
		calc.PricingConfig.MinPrice = Decimal(float64(minPrice))
		calc.PricingConfig.MaxPrice = Decimal(float64(maxPrice))
		calc.PricingConfig.EstimateVariance = Decimal(fake.Float64(2, 0, 1))

		sel := Selections{
			"projectType":      keys[fake.IntBetween(0, len(keys)-1)],
			"selectedFeatures": []any{keys[fake.IntBetween(0, len(keys)-1)], keys[fake.IntBetween(0, len(keys)-1)]},
			"scope":            keys[fake.IntBetween(0, len(keys)-1)],
		}
		res := Calculate(calc, sel)

		assert.True(t, res.FinalPrice.GreaterThanOrEqual(decimal.NewFromInt(int64(minPrice))), "final %s below min %d", res.FinalPrice, minPrice)
		assert.True(t, res.FinalPrice.LessThanOrEqual(decimal.NewFromInt(int64(maxPrice))), "final %s above max %d", res.FinalPrice, maxPrice)
		assert.True(t, res.LowEstimate.LessThanOrEqual(res.FinalPrice))
		assert.True(t, res.FinalPrice.LessThanOrEqual(res.HighEstimate))
	}
}

func TestLineItemJSON(t *testing.T) {
	res := Calculate(sampleCalculator(), Selections{
		"selectedTechStack": []any{"Kubernetes"},
		"support":           "premium",
	})
	out, err := json.Marshal(res.Breakdown)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"techStack":[{"cost":20000,"description":"Kubernetes technology implementation","tech":"Kubernetes"}]`)
	assert.Contains(t, string(out), `"support":[{"cost":50000,"description":"premium support package","support":"premium"}]`)

	var back Breakdown
	require.NoError(t, json.Unmarshal(out, &back))
	require.Len(t, back.TechStack, 1)
	assert.Equal(t, TechStackCosts, back.TechStack[0].Category)
	assert.Equal(t, "Kubernetes", back.TechStack[0].Key)
}
