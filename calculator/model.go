// Package calculator holds the project cost calculator: its configuration
// model, the step visibility conditions and the pricing engine.
//
// Everything in this package is a pure function over its arguments. Callers
// load a Calculator from storage, then either filter its steps for the
// current selections or price the final selections.
package calculator

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// The frontend reads prices and factors as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is used when a calculator does not name one.
const DefaultCurrency = "INR"

// StepType is the kind of wizard page a Step renders as.
type StepType string

const (
	StepSingleSelect StepType = "single-select"
	StepMultiSelect  StepType = "multi-select"
	StepContact      StepType = "contact"
	StepEstimate     StepType = "estimate"
)

// Valid reports whether t is one of the known step types.
func (t StepType) Valid() bool {
	switch t {
	case StepSingleSelect, StepMultiSelect, StepContact, StepEstimate:
		return true
	}
	return false
}

// Calculator is the versioned configuration of one calculator instance.
// Exactly one calculator is active at a time.
type Calculator struct {
	ID            string          `json:"id,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Currency      string          `json:"currency"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	Steps         []Step          `json:"steps"`
	PricingRules  PricingRules    `json:"pricingRules"`
	PricingConfig PricingConfig   `json:"pricingConfig"`
	IsActive      bool            `json:"isActive"`
	Version       string          `json:"version"`
}

// CurrencyCode returns the calculator currency, defaulting to INR.
func (c *Calculator) CurrencyCode() string {
	if c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// Clone returns a deep copy of c.
func (c *Calculator) Clone() (*Calculator, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var out Calculator
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Step is one page of the calculator wizard.
type Step struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle,omitempty"`
	Type      StepType       `json:"type"`
	Required  bool           `json:"required"`
	Order     int            `json:"order"`
	Condition *ConditionExpr `json:"condition,omitempty"`
	Options   []Option       `json:"options"`
}

// Option is a selectable choice within a step. Multiplier and AddCost are
// display hints only; pricing reads PricingRules by Key.
type Option struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	AddCost     decimal.Decimal `json:"addCost"`
	IsPopular   bool            `json:"isPopular"`
}

// UnmarshalJSON applies the option defaults (multiplier 1, addCost 0).
func (o *Option) UnmarshalJSON(data []byte) error {
	type plain Option
	out := plain{Multiplier: decimal.NewFromInt(1)}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*o = Option(out)
	return nil
}

// DiscountMode controls whether satisfied discount rules change the price.
type DiscountMode string

const (
	// DiscountInformational lists eligible discounts without applying them.
	DiscountInformational DiscountMode = "informational"
	// DiscountApply folds each eligible discount into the running price.
	DiscountApply DiscountMode = "apply"
)

// DiscountRule is a conditional percentage discount.
type DiscountRule struct {
	Condition       *ConditionExpr  `json:"condition,omitempty"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Description     string          `json:"description"`
}

var (
	DefaultMinPrice         = decimal.NewFromInt(25000)
	DefaultMaxPrice         = decimal.NewFromInt(5000000)
	DefaultEstimateVariance = decimal.RequireFromString("0.2")
	DefaultGSTRate          = decimal.RequireFromString("0.18")
)

// PricingConfig bounds and annotates the computed price. Nil numeric fields
// fall back to the package defaults; an explicit zero is honored.
type PricingConfig struct {
	MinPrice         *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice         *decimal.Decimal `json:"maxPrice,omitempty"`
	EstimateVariance *decimal.Decimal `json:"estimateVariance,omitempty"`
	GSTRate          *decimal.Decimal `json:"gstRate,omitempty"`
	DiscountMode     DiscountMode     `json:"discountMode,omitempty"`
	DiscountRules    []DiscountRule   `json:"discountRules,omitempty"`
}

func orDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}

func (p PricingConfig) Min() decimal.Decimal      { return orDefault(p.MinPrice, DefaultMinPrice) }
func (p PricingConfig) Max() decimal.Decimal      { return orDefault(p.MaxPrice, DefaultMaxPrice) }
func (p PricingConfig) Variance() decimal.Decimal { return orDefault(p.EstimateVariance, DefaultEstimateVariance) }
func (p PricingConfig) GST() decimal.Decimal      { return orDefault(p.GSTRate, DefaultGSTRate) }

// Mode returns the discount mode, defaulting to informational.
func (p PricingConfig) Mode() DiscountMode {
	if p.DiscountMode == "" {
		return DiscountInformational
	}
	return p.DiscountMode
}

// Decimal is a convenience for building optional PricingConfig values.
func Decimal(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
