package services

import (
	"context"
	"testing"
	"time"

	"estimator-backend/config"
	"estimator-backend/models"
	"estimator-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeExpiredSubmissions(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	now := time.Date(2026, 6, 1, 2, 30, 0, 0, time.UTC)

	for _, age := range []int{400, 366, 10, 0} {
		require.NoError(t, store.CreateSubmission(ctx, &models.CalculatorSubmission{
			CreatedAt: now.AddDate(0, 0, -age),
		}))
	}

	m := NewMaintenance(store, config.RetentionConfig{Days: 365, Schedule: "30 2 * * *"})
	m.now = func() time.Time { return now }

	n, err := m.PurgeExpiredSubmissions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, total, err := store.ListSubmissions(ctx, storage.ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestPurgeDisabled(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.CreateSubmission(context.Background(), &models.CalculatorSubmission{
		CreatedAt: time.Now().AddDate(-5, 0, 0),
	}))

	m := NewMaintenance(store, config.RetentionConfig{Days: 0})
	n, err := m.PurgeExpiredSubmissions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, m.Start())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	m := NewMaintenance(storage.NewMemoryStore(), config.RetentionConfig{Days: 30, Schedule: "every tuesday"})
	assert.Error(t, m.Start())
}

func TestRunOnceSurvivesMissingCalculator(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewMaintenance(store, config.RetentionConfig{Days: 30, Schedule: "@daily"})
	require.NoError(t, m.CheckActiveCalculator(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.RunOnce(ctx)

	require.NoError(t, m.Start())
	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	m.Stop(stopCtx)
}
