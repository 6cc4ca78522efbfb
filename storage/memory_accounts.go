package storage

import (
	"context"
	"sort"
	"strings"

	"estimator-backend/models"

	"github.com/google/uuid"
)

// conflicts reports whether another account already uses a's username or
// e-mail. Callers hold s.mu.
func (s *MemoryStore) conflicts(a *models.AdminUser) bool {
	for id, other := range s.admins {
		if id == a.ID {
			continue
		}
		if other.Username == a.Username || strings.EqualFold(other.Email, a.Email) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) insertAdmin(a *models.AdminUser) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if s.conflicts(a) {
		return ErrAdminExists
	}
	now := s.now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	s.admins[a.ID] = *a
	return nil
}

func (s *MemoryStore) CountAdmins(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.admins)), nil
}

func (s *MemoryStore) CreateFirstAdmin(_ context.Context, a *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.admins) > 0 {
		return ErrSetupDone
	}
	return s.insertAdmin(a)
}

func (s *MemoryStore) CreateAdmin(_ context.Context, a *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertAdmin(a)
}

func (s *MemoryStore) GetAdmin(_ context.Context, id string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return &a, nil
}

func (s *MemoryStore) FindAdminByLogin(_ context.Context, login string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Username == login || strings.EqualFold(a.Email, login) {
			return &a, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (s *MemoryStore) ListAdmins(_ context.Context) ([]models.AdminUser, error) {
	s.mu.RLock()
	all := make([]models.AdminUser, 0, len(s.admins))
	for _, a := range s.admins {
		all = append(all, a)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *MemoryStore) UpdateAdmin(_ context.Context, a *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[a.ID]; !ok {
		return ErrAdminNotFound
	}
	if s.conflicts(a) {
		return ErrAdminExists
	}
	a.UpdatedAt = s.now().UTC()
	s.admins[a.ID] = *a
	return nil
}

func (s *MemoryStore) DeleteAdmin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[id]; !ok {
		return ErrAdminNotFound
	}
	delete(s.admins, id)
	return nil
}

func (s *MemoryStore) ActiveContactForm(_ context.Context) (*models.ContactForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contactForm == nil {
		return nil, ErrNoContactForm
	}
	form := *s.contactForm
	form.BudgetOptions = append([]models.BudgetOption(nil), form.BudgetOptions...)
	return &form, nil
}

func (s *MemoryStore) SaveContactForm(_ context.Context, form *models.ContactForm) (*models.ContactForm, error) {
	stored := *form
	stored.BudgetOptions = append([]models.BudgetOption(nil), form.BudgetOptions...)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	stored.IsActive = true

	s.mu.Lock()
	s.contactForm = &stored
	s.mu.Unlock()

	out := stored
	out.BudgetOptions = append([]models.BudgetOption(nil), stored.BudgetOptions...)
	return &out, nil
}

func (s *MemoryStore) CreateContactSubmission(_ context.Context, sub *models.ContactSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[sub.ID] = *sub
	return nil
}

func (s *MemoryStore) ListContactSubmissions(_ context.Context, opts ListOptions) ([]models.ContactSubmission, int64, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	all := make([]models.ContactSubmission, 0, len(s.contacts))
	for _, sub := range s.contacts {
		all = append(all, sub)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, opts), int64(len(all)), nil
}

func (s *MemoryStore) DeleteContactSubmission(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return ErrContactSubmissionNotFound
	}
	delete(s.contacts, id)
	return nil
}
