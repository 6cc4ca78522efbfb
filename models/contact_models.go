package models

import "time"

// BudgetOption is one entry of the contact form's budget dropdown.
type BudgetOption struct {
	Value string `json:"value" binding:"required"`
	Label string `json:"label" binding:"required"`
}

// ContactForm configures the public "get in touch" form.
type ContactForm struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle"`
	BudgetOptions []BudgetOption `json:"budgetOptions"`
	SubmitURL     string         `json:"submitUrl"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// DefaultContactForm is served until an admin saves a form.
func DefaultContactForm() ContactForm {
	return ContactForm{
		Title:    "Get In Touch",
		Subtitle: "Fill the form below:",
		BudgetOptions: []BudgetOption{
			{Value: "4l-8l", Label: "₹4,00,000 - ₹8,00,000"},
			{Value: "8l-20l", Label: "₹8,00,000 - ₹20,00,000"},
			{Value: "20l-40l", Label: "₹20,00,000 - ₹40,00,000"},
			{Value: "40l+", Label: "₹40,00,000+"},
		},
		SubmitURL: "https://form.thetaphaus.in/send-email",
		IsActive:  true,
	}
}

// ContactFormUpdateRequest replaces the fields that are present.
type ContactFormUpdateRequest struct {
	Title         *string         `json:"title"`
	Subtitle      *string         `json:"subtitle"`
	BudgetOptions *[]BudgetOption `json:"budgetOptions" binding:"omitempty,dive"`
	SubmitURL     *string         `json:"submitUrl" binding:"omitempty,url"`
}

// Apply merges the present fields into f.
func (r ContactFormUpdateRequest) Apply(f *ContactForm) {
	if r.Title != nil {
		f.Title = *r.Title
	}
	if r.Subtitle != nil {
		f.Subtitle = *r.Subtitle
	}
	if r.BudgetOptions != nil {
		f.BudgetOptions = *r.BudgetOptions
	}
	if r.SubmitURL != nil {
		f.SubmitURL = *r.SubmitURL
	}
}

// ContactFormGorm represents the contact_forms table with GORM tags
type ContactFormGorm struct {
	ID            string                     `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Title         string                     `gorm:"column:title" json:"title"`
	Subtitle      string                     `gorm:"column:subtitle" json:"subtitle"`
	BudgetOptions JSONColumn[[]BudgetOption] `gorm:"column:budget_options;type:jsonb" json:"budget_options"`
	SubmitURL     string                     `gorm:"column:submit_url" json:"submit_url"`
	IsActive      bool                       `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt     time.Time                  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time                  `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for ContactFormGorm
func (ContactFormGorm) TableName() string {
	return "contact_forms"
}

func NewContactFormGorm(f *ContactForm) ContactFormGorm {
	return ContactFormGorm{
		ID:            f.ID,
		Title:         f.Title,
		Subtitle:      f.Subtitle,
		BudgetOptions: NewJSONColumn(f.BudgetOptions),
		SubmitURL:     f.SubmitURL,
		IsActive:      f.IsActive,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func (g ContactFormGorm) ToContactForm() *ContactForm {
	return &ContactForm{
		ID:            g.ID,
		Title:         g.Title,
		Subtitle:      g.Subtitle,
		BudgetOptions: g.BudgetOptions.Data,
		SubmitURL:     g.SubmitURL,
		IsActive:      g.IsActive,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID            string    `json:"id"`
	Name          string    `json:"name" binding:"required"`
	Company       string    `json:"company"`
	Goal          string    `json:"goal"`
	Date          string    `json:"date"`
	Budget        string    `json:"budget"`
	Email         string    `json:"email" binding:"required,email"`
	Details       string    `json:"details"`
	PrivacyPolicy bool      `json:"privacyPolicy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ContactSubmissionGorm represents the contact_submissions table with GORM tags
type ContactSubmissionGorm struct {
	ID            string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Name          string    `gorm:"column:name" json:"name"`
	Company       string    `gorm:"column:company" json:"company"`
	Goal          string    `gorm:"column:goal" json:"goal"`
	Date          string    `gorm:"column:date" json:"date"`
	Budget        string    `gorm:"column:budget" json:"budget"`
	Email         string    `gorm:"column:email;index" json:"email"`
	Details       string    `gorm:"column:details;type:text" json:"details"`
	PrivacyPolicy bool      `gorm:"column:privacy_policy" json:"privacy_policy"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

// TableName specifies the table name for ContactSubmissionGorm
func (ContactSubmissionGorm) TableName() string {
	return "contact_submissions"
}

func NewContactSubmissionGorm(s *ContactSubmission) ContactSubmissionGorm {
	return ContactSubmissionGorm{
		ID:            s.ID,
		Name:          s.Name,
		Company:       s.Company,
		Goal:          s.Goal,
		Date:          s.Date,
		Budget:        s.Budget,
		Email:         s.Email,
		Details:       s.Details,
		PrivacyPolicy: s.PrivacyPolicy,
		CreatedAt:     s.CreatedAt,
	}
}

func (g ContactSubmissionGorm) ToContactSubmission() *ContactSubmission {
	return &ContactSubmission{
		ID:            g.ID,
		Name:          g.Name,
		Company:       g.Company,
		Goal:          g.Goal,
		Date:          g.Date,
		Budget:        g.Budget,
		Email:         g.Email,
		Details:       g.Details,
		PrivacyPolicy: g.PrivacyPolicy,
		CreatedAt:     g.CreatedAt,
	}
}

// ContactSubmissionListResponse is one page of contact messages.
type ContactSubmissionListResponse struct {
	Submissions []ContactSubmission `json:"submissions"`
	Total       int64               `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}
