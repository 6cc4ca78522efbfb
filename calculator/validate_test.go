package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func validCalculator() *Calculator {
	calc := sampleCalculator()
	calc.Steps = []Step{
		{ID: "project-type", Type: StepSingleSelect, Options: []Option{{Key: "website"}, {Key: "web-app"}}},
		{ID: "platforms", Type: StepMultiSelect, Condition: When(NotEquals{Field: "projectType", Value: "website"})},
		{ID: "contact", Type: StepContact},
	}
	calc.PricingConfig.DiscountRules = []DiscountRule{
		{Condition: When(Equals{Field: "scope", Value: "mvp"}), DiscountPercent: d("10"), Description: "MVP"},
	}
	return calc
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	assert.NoError(t, validCalculator().Validate())
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	calc := validCalculator()
	calc.Currency = "rupees"
	calc.Steps = append(calc.Steps,
		Step{ID: "contact", Type: "slider"},
		Step{ID: "extra", Type: StepSingleSelect, Condition: NewConditionExpr("{oops"),
			Options: []Option{{Key: "a"}, {Key: "a"}}},
	)
	calc.PricingRules.FeatureCosts["Refund"] = d("-100")
	calc.PricingRules.TeamMultipliers["none"] = decimal.Zero
	calc.PricingConfig.MinPrice = Decimal(100)
	calc.PricingConfig.MaxPrice = Decimal(10)
	calc.PricingConfig.GSTRate = Decimal(1.5)
	calc.PricingConfig.DiscountMode = "sometimes"
	calc.PricingConfig.DiscountRules[0].DiscountPercent = d("120")

	err := calc.Validate()
	require.Error(t, err)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 11)
	msg := err.Error()
	for _, want := range []string{
		"not an ISO 4217 code",
		`duplicate step id "contact"`,
		`unknown step type "slider"`,
		"malformed condition",
		`duplicate option key "a"`,
		"cost must not be negative",
		"factor must be positive",
		"exceeds maxPrice",
		"gstRate 1.5 outside [0,1]",
		`unknown discountMode "sometimes"`,
		"discountPercent outside [0,100]",
	} {
		assert.Contains(t, msg, want)
	}
}
