package storage

import (
	"context"
	"errors"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"
)

var (
	// ErrNoActiveCalculator means no calculator has been configured yet.
	ErrNoActiveCalculator = errors.New("calculator configuration not found")
	// ErrSubmissionNotFound means no submission has the requested id.
	ErrSubmissionNotFound = errors.New("calculator submission not found")
	// ErrAdminNotFound means no admin account matches.
	ErrAdminNotFound = errors.New("admin user not found")
	// ErrAdminExists means the username or e-mail is already taken.
	ErrAdminExists = errors.New("username or email already exists")
	// ErrSetupDone means first-run setup was attempted with admins present.
	ErrSetupDone = errors.New("admin already exists")
	// ErrNoContactForm means no contact form has been saved yet.
	ErrNoContactForm = errors.New("contact form not found")
	// ErrContactSubmissionNotFound means no contact message has the requested id.
	ErrContactSubmissionNotFound = errors.New("contact submission not found")
)

// CalculatorStore persists calculator configurations. Exactly one stored
// calculator is active at a time.
type CalculatorStore interface {
	// ActiveCalculator returns a private copy of the active calculator, or
	// ErrNoActiveCalculator.
	ActiveCalculator(ctx context.Context) (*calculator.Calculator, error)
	// SaveCalculator stores calc as the active calculator, deactivating any
	// other. An empty ID is assigned.
	SaveCalculator(ctx context.Context, calc *calculator.Calculator) (*calculator.Calculator, error)
}

// ListOptions pages through submissions, newest first.
type ListOptions struct {
	Limit  int
	Offset int
}

// SubmissionStore persists quote submissions.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *models.CalculatorSubmission) error
	ListSubmissions(ctx context.Context, opts ListOptions) ([]models.CalculatorSubmission, int64, error)
	GetSubmission(ctx context.Context, id string) (*models.CalculatorSubmission, error)
	DeleteSubmission(ctx context.Context, id string) error
	// PurgeSubmissionsBefore deletes submissions created before cutoff and
	// returns how many were removed.
	PurgeSubmissionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AdminStore persists admin accounts. Usernames and e-mails are unique.
type AdminStore interface {
	CountAdmins(ctx context.Context) (int64, error)
	// CreateFirstAdmin stores admin only while no account exists, otherwise
	// it returns ErrSetupDone.
	CreateFirstAdmin(ctx context.Context, admin *models.AdminUser) error
	CreateAdmin(ctx context.Context, admin *models.AdminUser) error
	GetAdmin(ctx context.Context, id string) (*models.AdminUser, error)
	// FindAdminByLogin matches login against the username or the e-mail.
	FindAdminByLogin(ctx context.Context, login string) (*models.AdminUser, error)
	ListAdmins(ctx context.Context) ([]models.AdminUser, error)
	UpdateAdmin(ctx context.Context, admin *models.AdminUser) error
	DeleteAdmin(ctx context.Context, id string) error
}

// ContactStore persists the contact form settings and the messages sent
// through it.
type ContactStore interface {
	ActiveContactForm(ctx context.Context) (*models.ContactForm, error)
	SaveContactForm(ctx context.Context, form *models.ContactForm) (*models.ContactForm, error)
	CreateContactSubmission(ctx context.Context, sub *models.ContactSubmission) error
	ListContactSubmissions(ctx context.Context, opts ListOptions) ([]models.ContactSubmission, int64, error)
	DeleteContactSubmission(ctx context.Context, id string) error
}

// Store is everything the HTTP layer persists.
type Store interface {
	CalculatorStore
	SubmissionStore
	AdminStore
	ContactStore
	Close() error
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Normalize clamps paging to sane bounds.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
)
