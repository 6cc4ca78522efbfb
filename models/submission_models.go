package models

import (
	"time"

	"estimator-backend/calculator"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ContactInfo is who asked for a quote.
type ContactInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// CalculatorSubmission is a stored quote: the final selections, the price
// computed for them and the contact details.
type CalculatorSubmission struct {
	ID          string                 `json:"id"`
	Selections  calculator.Selections  `json:"selections"`
	Result      calculator.PriceResult `json:"result"`
	ContactInfo ContactInfo            `json:"contactInfo"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// CalculatorSubmissionGorm represents the calculator_submissions table with GORM tags.
// List selections are kept as text[] so they can be filtered in SQL.
type CalculatorSubmissionGorm struct {
	ID             string                             `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	ProjectType    string                             `gorm:"column:project_type;index" json:"project_type"`
	Industries     pq.StringArray                     `gorm:"column:industries;type:text[]" json:"industries"`
	Services       pq.StringArray                     `gorm:"column:services;type:text[]" json:"services"`
	Features       pq.StringArray                     `gorm:"column:features;type:text[]" json:"features"`
	Platforms      pq.StringArray                     `gorm:"column:platforms;type:text[]" json:"platforms"`
	Integrations   pq.StringArray                     `gorm:"column:integrations;type:text[]" json:"integrations"`
	TechStack      pq.StringArray                     `gorm:"column:tech_stack;type:text[]" json:"tech_stack"`
	Scope          string                             `gorm:"column:scope" json:"scope"`
	Team           string                             `gorm:"column:team" json:"team"`
	Timeline       string                             `gorm:"column:timeline" json:"timeline"`
	Support        string                             `gorm:"column:support" json:"support"`
	Selections     JSONColumn[calculator.Selections]  `gorm:"column:selections;type:jsonb" json:"selections"`
	Result         JSONColumn[calculator.PriceResult] `gorm:"column:result;type:jsonb" json:"result"`
	FinalPrice     decimal.Decimal                    `gorm:"column:final_price;type:numeric(14,2)" json:"final_price"`
	TotalWithGST   decimal.Decimal                    `gorm:"column:total_with_gst;type:numeric(14,2)" json:"total_with_gst"`
	Currency       string                             `gorm:"column:currency;type:varchar(3)" json:"currency"`
	ContactName    string                             `gorm:"column:contact_name" json:"contact_name"`
	ContactEmail   string                             `gorm:"column:contact_email;index" json:"contact_email"`
	ContactPhone   string                             `gorm:"column:contact_phone" json:"contact_phone"`
	ContactCompany string                             `gorm:"column:contact_company" json:"contact_company"`
	CreatedAt      time.Time                          `gorm:"column:created_at;not null;index" json:"created_at"`
}

// TableName specifies the table name for CalculatorSubmissionGorm
func (CalculatorSubmissionGorm) TableName() string {
	return "calculator_submissions"
}

// NewCalculatorSubmissionGorm flattens a submission into its row.
func NewCalculatorSubmissionGorm(s *CalculatorSubmission) CalculatorSubmissionGorm {
	sel := s.Selections
	return CalculatorSubmissionGorm{
		ID:             s.ID,
		ProjectType:    sel.String(calculator.FieldProjectType),
		Industries:     pq.StringArray(sel.Strings(calculator.FieldSelectedIndustries)),
		Services:       pq.StringArray(sel.Strings(calculator.FieldSelectedServices)),
		Features:       pq.StringArray(sel.Strings(calculator.FieldSelectedFeatures)),
		Platforms:      pq.StringArray(sel.Strings(calculator.FieldSelectedPlatforms)),
		Integrations:   pq.StringArray(sel.Strings(calculator.FieldSelectedIntegrations)),
		TechStack:      pq.StringArray(sel.Strings(calculator.FieldSelectedTechStack)),
		Scope:          sel.String(calculator.FieldScope),
		Team:           sel.String(calculator.FieldTeam),
		Timeline:       sel.String(calculator.FieldTimeline),
		Support:        sel.String(calculator.FieldSupport),
		Selections:     NewJSONColumn(sel),
		Result:         NewJSONColumn(s.Result),
		FinalPrice:     s.Result.FinalPrice,
		TotalWithGST:   s.Result.TotalWithGST,
		Currency:       s.Result.Currency,
		ContactName:    s.ContactInfo.Name,
		ContactEmail:   s.ContactInfo.Email,
		ContactPhone:   s.ContactInfo.Phone,
		ContactCompany: s.ContactInfo.Company,
		CreatedAt:      s.CreatedAt,
	}
}

// ToSubmission maps the row back onto the domain type.
func (g CalculatorSubmissionGorm) ToSubmission() *CalculatorSubmission {
	return &CalculatorSubmission{
		ID:         g.ID,
		Selections: g.Selections.Data,
		Result:     g.Result.Data,
		ContactInfo: ContactInfo{
			Name:    g.ContactName,
			Email:   g.ContactEmail,
			Phone:   g.ContactPhone,
			Company: g.ContactCompany,
		},
		CreatedAt: g.CreatedAt,
	}
}
