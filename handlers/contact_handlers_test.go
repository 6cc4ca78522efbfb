package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"estimator-backend/models"
	"estimator-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContactFormDefault(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodGet, "/api/contact-form", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	form := decodeBody[models.ContactForm](t, w)
	assert.Equal(t, "Get In Touch", form.Title)
	assert.Len(t, form.BudgetOptions, 4)
	assert.True(t, form.IsActive)
	assert.NotEmpty(t, form.ID, "the default is stored on first read")

	w = env.do(t, http.MethodGet, "/api/contact-form", nil, "")
	assert.Equal(t, form.ID, decodeBody[models.ContactForm](t, w).ID)
}

func TestUpdateContactForm(t *testing.T) {
	env := newTestEnv(t, false, nil)
	token := env.adminToken(t)

	body := map[string]any{
		"title":         "Talk to us",
		"budgetOptions": []map[string]string{{"value": "small", "label": "Under ₹5L"}},
	}
	w := env.do(t, http.MethodPut, "/api/contact-form", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPut, "/api/contact-form", body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	form := decodeBody[models.ContactForm](t, w)
	assert.Equal(t, "Talk to us", form.Title)
	assert.Equal(t, "Fill the form below:", form.Subtitle, "absent fields keep their value")
	assert.Equal(t, []models.BudgetOption{{Value: "small", Label: "Under ₹5L"}}, form.BudgetOptions)

	w = env.do(t, http.MethodGet, "/api/contact-form", nil, "")
	assert.Equal(t, form.Title, decodeBody[models.ContactForm](t, w).Title)

	tests := []struct {
		name string
		body any
	}{
		{name: "bad url", body: map[string]any{"submitUrl": "not a url"}},
		{name: "option without label", body: map[string]any{"budgetOptions": []map[string]string{{"value": "x"}}}},
		{name: "malformed json", body: `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, "/api/contact-form", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestContactSubmissions(t *testing.T) {
	env := newTestEnv(t, false, nil)
	token := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/contact-submissions", map[string]any{
		"name":          " Asha ",
		"email":         "asha@example.com",
		"company":       "Acme",
		"budget":        "8l-20l",
		"details":       "A booking app",
		"privacyPolicy": true,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[models.ContactSubmission](t, w)
	assert.Equal(t, "Asha", created.Name)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	w = env.do(t, http.MethodGet, "/api/contact-submissions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/contact-submissions", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[models.ContactSubmissionListResponse](t, w)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, storage.DefaultListLimit, list.Limit)
	require.Len(t, list.Submissions, 1)
	assert.Equal(t, "Acme", list.Submissions[0].Company)

	w = env.do(t, http.MethodDelete, "/api/contact-submissions/"+created.ID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodDelete, "/api/contact-submissions/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Contact submission deleted successfully", decodeBody[models.MessageResponse](t, w).Message)

	w = env.do(t, http.MethodDelete, "/api/contact-submissions/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Contact submission not found", errorOf(t, w))
}

func TestCreateContactSubmissionRejected(t *testing.T) {
	env := newTestEnv(t, false, nil)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing name", body: map[string]any{"email": "a@example.com"}},
		{name: "missing email", body: map[string]any{"name": "Asha"}},
		{name: "invalid email", body: map[string]any{"name": "Asha", "email": "asha"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/contact-submissions", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "A name and a valid email are required", errorOf(t, w))
		})
	}
}

func TestListContactSubmissionsPaged(t *testing.T) {
	env := newTestEnv(t, false, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, env.store.CreateContactSubmission(context.Background(), &models.ContactSubmission{
			Name:  fmt.Sprintf("Visitor %d", i),
			Email: fmt.Sprintf("v%d@example.com", i),
		}))
	}

	w := env.do(t, http.MethodGet, "/api/contact-submissions?limit=2&offset=4", nil, env.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[models.ContactSubmissionListResponse](t, w)
	assert.Equal(t, int64(5), list.Total)
	assert.Equal(t, 2, list.Limit)
	assert.Equal(t, 4, list.Offset)
	assert.Len(t, list.Submissions, 1)
}
