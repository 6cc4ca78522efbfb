package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"
	"estimator-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, true, nil)

	viewer, err := utils.GenerateAdminJWT(testSecret, "viewer", "viewer", time.Hour)
	require.NoError(t, err)
	foreign, err := utils.GenerateAdminJWT("other-secret", testUsername, "admin", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		status  int
		message string
	}{
		{name: "no token", token: "", status: http.StatusUnauthorized, message: "Access denied. No token provided."},
		{name: "garbage", token: "not-a-jwt", status: http.StatusUnauthorized, message: "Invalid token."},
		{name: "wrong secret", token: foreign, status: http.StatusUnauthorized, message: "Invalid token."},
		{name: "not an admin", token: viewer, status: http.StatusForbidden, message: "Admin role required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/api/admin/pricing", "/api/calculator-submissions"} {
				w := env.do(t, http.MethodGet, path, nil, tt.token)
				assert.Equal(t, tt.status, w.Code, path)
				assert.Equal(t, tt.message, errorOf(t, w), path)
			}
		})
	}
}

func TestGetPricing(t *testing.T) {
	env := newTestEnv(t, true, nil)

	w := env.do(t, http.MethodGet, "/api/admin/pricing", nil, env.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[models.PricingResponse](t, w)
	assert.Equal(t, "75000", resp.BasePrice.String())
	assert.Equal(t, "INR", resp.Currency)
	assert.NotEmpty(t, resp.PricingRules.FeatureCosts)
	assert.Len(t, resp.PricingConfig.DiscountRules, 2)
}

func TestUpdatePricing(t *testing.T) {
	env := newTestEnv(t, true, nil)

	w := env.do(t, http.MethodPut, "/api/admin/pricing", map[string]any{"basePrice": 90000}, env.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[models.PricingUpdateResponse](t, w)
	assert.Equal(t, "Pricing configuration updated successfully", resp.Message)
	assert.Equal(t, "90000", resp.BasePrice.String())
	assert.NotEmpty(t, resp.PricingRules.ScopeMultipliers, "untouched sections are kept")

	calc, err := env.store.ActiveCalculator(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "90000", calc.BasePrice.String())
	assert.Equal(t, "2.1", calc.Version)
}

func TestUpdatePricingRejectsInvalidConfig(t *testing.T) {
	env := newTestEnv(t, true, nil)

	w := env.do(t, http.MethodPut, "/api/admin/pricing", map[string]any{
		"pricingConfig": map[string]any{"minPrice": 100, "maxPrice": 10, "gstRate": 2},
	}, env.adminToken(t))
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[models.ErrorResponse](t, w)
	assert.Equal(t, "Invalid calculator configuration", resp.Error)
	assert.Len(t, resp.Details, 2)

	calc, err := env.store.ActiveCalculator(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.0", calc.Version, "rejected writes are not stored")
}

func TestUpdatePricingRule(t *testing.T) {
	env := newTestEnv(t, true, nil)
	token := env.adminToken(t)

	tests := []struct {
		name     string
		ruleType string
		body     any
		status   int
		message  string
	}{
		{name: "unknown table", ruleType: "legacyCosts", body: map[string]any{"rules": map[string]any{"x": 1}}, status: http.StatusBadRequest, message: "Invalid rule type"},
		{name: "missing rules", ruleType: "featureCosts", body: map[string]any{}, status: http.StatusBadRequest, message: "Rules are required"},
		{name: "non-positive factor", ruleType: "scopeMultipliers", body: map[string]any{"rules": map[string]any{"mvp": 0}}, status: http.StatusBadRequest, message: "Invalid calculator configuration"},
		{name: "replaces table", ruleType: "featureCosts", body: map[string]any{"rules": map[string]any{"Authentication": 18000, "Chat": 30000}}, status: http.StatusOK, message: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, "/api/admin/pricing/"+tt.ruleType, tt.body, token)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.message != "" {
				assert.Equal(t, tt.message, errorOf(t, w))
			}
		})
	}

	calc, err := env.store.ActiveCalculator(context.Background())
	require.NoError(t, err)
	assert.Len(t, calc.PricingRules.FeatureCosts, 2)
	assert.Equal(t, "18000", calc.PricingRules.Lookup(calculator.FeatureCosts, "Authentication").String())
	assert.Equal(t, "0", calc.PricingRules.Lookup(calculator.FeatureCosts, "Payments").String())
}

func TestUpdatePricingRuleResponse(t *testing.T) {
	env := newTestEnv(t, true, nil)

	w := env.do(t, http.MethodPut, "/api/admin/pricing/supportCosts",
		map[string]any{"rules": map[string]any{"premium": 40000}}, env.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "supportCosts updated successfully", body["message"])
	assert.Equal(t, map[string]any{"premium": float64(40000)}, body["supportCosts"])
}

func TestUpdateCalculator(t *testing.T) {
	env := newTestEnv(t, true, nil)
	before, err := env.store.ActiveCalculator(context.Background())
	require.NoError(t, err)

	calc := map[string]any{
		"title":     "Small Sites",
		"currency":  "USD",
		"basePrice": 2000,
		"steps": []any{
			map[string]any{"id": "project-type", "title": "Type", "type": "single-select", "order": 1,
				"options": []any{map[string]any{"key": "website", "title": "Website"}}},
			map[string]any{"id": "pages", "title": "Pages", "type": "multi-select", "order": 2,
				"condition": map[string]any{"type": "equals", "field": "projectType", "value": "website"}},
		},
		"pricingRules": map[string]any{"projectTypeMultipliers": map[string]any{"website": 1}},
	}

	w := env.do(t, http.MethodPut, "/api/admin/calculator", calc, env.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[models.CalculatorUpdateResponse](t, w)
	assert.Equal(t, "Calculator updated successfully", resp.Message)
	require.NotNil(t, resp.Calculator)
	assert.Equal(t, before.ID, resp.Calculator.ID, "the active calculator is revised in place")
	assert.Equal(t, "2.1", resp.Calculator.Version)
	assert.True(t, resp.Calculator.IsActive)

	w = env.do(t, http.MethodPost, "/api/calculator/steps",
		map[string]any{"currentSelections": map[string]any{"projectType": "app"}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeBody[models.StepsResponse](t, w).TotalSteps)
}

func TestUpdateCalculatorRejectsInvalid(t *testing.T) {
	env := newTestEnv(t, true, nil)

	w := env.do(t, http.MethodPut, "/api/admin/calculator", map[string]any{
		"title":     "Broken",
		"currency":  "RUPEES",
		"basePrice": -1,
		"steps": []any{
			map[string]any{"id": "a", "title": "A", "type": "dropdown"},
			map[string]any{"id": "a", "title": "A again", "type": "contact"},
		},
	}, env.adminToken(t))
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[models.ErrorResponse](t, w)
	assert.Equal(t, "Invalid calculator configuration", resp.Error)
	assert.Len(t, resp.Details, 4)
}

func TestSeedCalculator(t *testing.T) {
	env := newTestEnv(t, false, nil)
	token := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/admin/seed-calculator", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[models.SeedResponse](t, w)
	assert.Equal(t, "Calculator seeded successfully!", resp.Message)
	assert.Equal(t, 13, resp.StepCount)

	w = env.do(t, http.MethodPost, "/api/admin/seed-calculator", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Calculator already exists", decodeBody[models.SeedResponse](t, w).Message)

	w = env.do(t, http.MethodGet, "/api/calculator", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
