package storage

import (
	"context"
	"testing"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCalculatorLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.ActiveCalculator(ctx)
	require.ErrorIs(t, err, ErrNoActiveCalculator)

	first, err := s.SaveCalculator(ctx, &calculator.Calculator{
		Title:     "v1",
		BasePrice: decimal.NewFromInt(50000),
		PricingRules: calculator.PricingRules{
			ScopeMultipliers: calculator.RuleTable{"mvp": decimal.RequireFromString("0.6")},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.IsActive)

	active, err := s.ActiveCalculator(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", active.Title)

	// Mutating a returned copy must not leak into the store.
	active.PricingRules.ScopeMultipliers["mvp"] = decimal.NewFromInt(9)
	again, err := s.ActiveCalculator(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.6").Equal(again.PricingRules.ScopeMultipliers["mvp"]))

	second, err := s.SaveCalculator(ctx, &calculator.Calculator{Title: "v2"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	active, err = s.ActiveCalculator(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", active.Title)

	// Saving under an existing id updates in place.
	second.Title = "v2.1"
	_, err = s.SaveCalculator(ctx, second)
	require.NoError(t, err)
	active, err = s.ActiveCalculator(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2.1", active.Title)
	assert.Equal(t, second.ID, active.ID)
}

func TestMemoryStoreSubmissions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateSubmission(ctx, &models.CalculatorSubmission{
			Selections:  calculator.Selections{"projectType": "web-app"},
			ContactInfo: models.ContactInfo{Name: "Asha"},
			CreatedAt:   base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	page, total, err := s.ListSubmissions(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))
	assert.Equal(t, base.Add(4*24*time.Hour), page[0].CreatedAt)

	page, _, err = s.ListSubmissions(ctx, ListOptions{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)

	got, err := s.GetSubmission(ctx, page0ID(t, s))
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.ContactInfo.Name)

	n, err := s.PurgeSubmissionsBefore(ctx, base.Add(2*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, total, err = s.ListSubmissions(ctx, ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	id := page0ID(t, s)
	require.NoError(t, s.DeleteSubmission(ctx, id))
	assert.ErrorIs(t, s.DeleteSubmission(ctx, id), ErrSubmissionNotFound)
	_, err = s.GetSubmission(ctx, id)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func page0ID(t *testing.T, s *MemoryStore) string {
	t.Helper()
	page, _, err := s.ListSubmissions(context.Background(), ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	return page[0].ID
}

func TestListOptionsNormalize(t *testing.T) {
	assert.Equal(t, ListOptions{Limit: DefaultListLimit}, ListOptions{}.Normalize())
	assert.Equal(t, ListOptions{Limit: MaxListLimit, Offset: 0}, ListOptions{Limit: 10000, Offset: -3}.Normalize())
}
