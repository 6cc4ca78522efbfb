package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process. Calculators are copied on the way
// in and out so callers always work on a snapshot.
type MemoryStore struct {
	mu          sync.RWMutex
	calculators map[string]*calculator.Calculator
	activeID    string
	submissions map[string]models.CalculatorSubmission
	admins      map[string]models.AdminUser
	contactForm *models.ContactForm
	contacts    map[string]models.ContactSubmission
	now         func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		calculators: make(map[string]*calculator.Calculator),
		submissions: make(map[string]models.CalculatorSubmission),
		admins:      make(map[string]models.AdminUser),
		contacts:    make(map[string]models.ContactSubmission),
		now:         time.Now,
	}
}

func (s *MemoryStore) ActiveCalculator(_ context.Context) (*calculator.Calculator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calc, ok := s.calculators[s.activeID]
	if !ok {
		return nil, ErrNoActiveCalculator
	}
	return calc.Clone()
}

func (s *MemoryStore) SaveCalculator(_ context.Context, calc *calculator.Calculator) (*calculator.Calculator, error) {
	stored, err := calc.Clone()
	if err != nil {
		return nil, err
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.IsActive = true

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, other := range s.calculators {
		if id != stored.ID {
			other.IsActive = false
		}
	}
	s.calculators[stored.ID] = stored
	s.activeID = stored.ID
	return stored.Clone()
}

func (s *MemoryStore) CreateSubmission(_ context.Context, sub *models.CalculatorSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[sub.ID] = *sub
	return nil
}

func (s *MemoryStore) ListSubmissions(_ context.Context, opts ListOptions) ([]models.CalculatorSubmission, int64, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	all := make([]models.CalculatorSubmission, 0, len(s.submissions))
	for _, sub := range s.submissions {
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

// page slices one normalized page out of a sorted list.
func page[T any](all []T, opts ListOptions) []T {
	if opts.Offset >= len(all) {
		return []T{}
	}
	end := opts.Offset + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[opts.Offset:end]
}

func (s *MemoryStore) GetSubmission(_ context.Context, id string) (*models.CalculatorSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	return &sub, nil
}

func (s *MemoryStore) DeleteSubmission(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[id]; !ok {
		return ErrSubmissionNotFound
	}
	delete(s.submissions, id)
	return nil
}

func (s *MemoryStore) PurgeSubmissionsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sub := range s.submissions {
		if sub.CreatedAt.Before(cutoff) {
			delete(s.submissions, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }
