package services

import (
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"

	"github.com/shopspring/decimal"
)

func testSubmission() *models.CalculatorSubmission {
	calc := &calculator.Calculator{
		Title:     "Test Calculator",
		Currency:  "INR",
		BasePrice: decimal.NewFromInt(100000),
		PricingRules: calculator.PricingRules{
			ProjectTypeMultipliers: calculator.RuleTable{"web-app": decimal.NewFromInt(1)},
			FeatureCosts:           calculator.RuleTable{"Authentication": decimal.NewFromInt(15000)},
			ScopeMultipliers:       calculator.RuleTable{"mvp": decimal.RequireFromString("0.6")},
		},
	}
	sel := calculator.Selections{
		"projectType":       "web-app",
		"selectedFeatures":  []any{"Authentication"},
		"selectedPlatforms": []any{"web", "ios"},
		"scope":             "mvp",
	}
	return &models.CalculatorSubmission{
		ID:         "3f2b8c1e-0000-4000-8000-000000000001",
		Selections: sel,
		Result:     calculator.Calculate(calc, sel),
		ContactInfo: models.ContactInfo{
			Name:    "Asha Rao",
			Email:   "asha@example.com",
			Company: "Rao Labs",
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}
