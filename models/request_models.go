package models

import (
	"time"

	"estimator-backend/calculator"

	"github.com/shopspring/decimal"
)

// StepsRequest is the body of POST /api/calculator/steps.
type StepsRequest struct {
	CurrentSelections calculator.Selections `json:"currentSelections"`
}

// StepsResponse lists the steps visible for the current selections.
type StepsResponse struct {
	Steps       []calculator.Step `json:"steps"`
	TotalSteps  int               `json:"totalSteps"`
	CurrentStep int               `json:"currentStep"`
}

// CalculateRequest is the body of POST /api/calculator/calculate.
type CalculateRequest struct {
	Selections calculator.Selections `json:"selections" binding:"required"`
}

// QuoteRequest prices selections and optionally names the recipient.
type QuoteRequest struct {
	Selections  calculator.Selections `json:"selections" binding:"required"`
	ContactInfo ContactInfo           `json:"contactInfo"`
}

// PricingResponse is the pricing slice of the active calculator.
type PricingResponse struct {
	BasePrice     decimal.Decimal          `json:"basePrice"`
	Currency      string                   `json:"currency"`
	PricingRules  calculator.PricingRules  `json:"pricingRules"`
	PricingConfig calculator.PricingConfig `json:"pricingConfig"`
}

// PricingUpdateRequest replaces any of the pricing sections that are present.
type PricingUpdateRequest struct {
	BasePrice     *decimal.Decimal          `json:"basePrice"`
	PricingRules  *calculator.PricingRules  `json:"pricingRules"`
	PricingConfig *calculator.PricingConfig `json:"pricingConfig"`
}

// RuleTableRequest replaces one pricing rule table.
type RuleTableRequest struct {
	Rules calculator.RuleTable `json:"rules" binding:"required"`
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminInfo identifies the signed-in admin. ID and Email are empty for the
// account configured in admin.username.
type AdminInfo struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// LoginResponse carries the issued admin token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     AdminInfo `json:"admin"`
}

// SubmissionListResponse is one page of stored submissions.
type SubmissionListResponse struct {
	Submissions []CalculatorSubmission `json:"submissions"`
	Total       int64                  `json:"total"`
	Limit       int                    `json:"limit"`
	Offset      int                    `json:"offset"`
}

// CreateSubmissionRequest is the public quote submission body. Any result
// sent by the client is ignored and recomputed.
type CreateSubmissionRequest struct {
	Selections  calculator.Selections `json:"selections" binding:"required"`
	ContactInfo ContactInfo           `json:"contactInfo"`
}

// SeedResponse reports the outcome of seeding the calculator.
type SeedResponse struct {
	Message   string `json:"message"`
	StepCount int    `json:"stepCount"`
}

// CalculatorUpdateResponse wraps the stored calculator after an admin edit.
type CalculatorUpdateResponse struct {
	Message    string                 `json:"message"`
	Calculator *calculator.Calculator `json:"calculator"`
}

// PricingUpdateResponse is PricingResponse plus a confirmation message.
type PricingUpdateResponse struct {
	Message string `json:"message"`
	PricingResponse
}

// ErrorResponse is used in @Failure for error responses
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
