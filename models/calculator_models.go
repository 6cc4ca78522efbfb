package models

import (
	"time"

	"estimator-backend/calculator"

	"github.com/shopspring/decimal"
)

// CalculatorGorm represents the calculators table with GORM tags
type CalculatorGorm struct {
	ID            string                               `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Title         string                               `gorm:"column:title;not null" json:"title"`
	Description   string                               `gorm:"column:description" json:"description"`
	Currency      string                               `gorm:"column:currency;type:varchar(3);not null;default:'INR'" json:"currency"`
	BasePrice     decimal.Decimal                      `gorm:"column:base_price;type:numeric(14,2);not null" json:"base_price"`
	Steps         JSONColumn[[]calculator.Step]        `gorm:"column:steps;type:jsonb" json:"steps"`
	PricingRules  JSONColumn[calculator.PricingRules]  `gorm:"column:pricing_rules;type:jsonb" json:"pricing_rules"`
	PricingConfig JSONColumn[calculator.PricingConfig] `gorm:"column:pricing_config;type:jsonb" json:"pricing_config"`
	IsActive      bool                                 `gorm:"column:is_active;index;default:true" json:"is_active"`
	Version       string                               `gorm:"column:version;default:'1.0'" json:"version"`
	CreatedAt     time.Time                            `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time                            `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for CalculatorGorm
func (CalculatorGorm) TableName() string {
	return "calculators"
}

// NewCalculatorGorm maps a calculator onto its row.
func NewCalculatorGorm(c *calculator.Calculator) CalculatorGorm {
	return CalculatorGorm{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Currency:      c.CurrencyCode(),
		BasePrice:     c.BasePrice,
		Steps:         NewJSONColumn(c.Steps),
		PricingRules:  NewJSONColumn(c.PricingRules),
		PricingConfig: NewJSONColumn(c.PricingConfig),
		IsActive:      c.IsActive,
		Version:       c.Version,
	}
}

// ToCalculator maps the row back onto the domain type.
func (g CalculatorGorm) ToCalculator() *calculator.Calculator {
	return &calculator.Calculator{
		ID:            g.ID,
		Title:         g.Title,
		Description:   g.Description,
		Currency:      g.Currency,
		BasePrice:     g.BasePrice,
		Steps:         g.Steps.Data,
		PricingRules:  g.PricingRules.Data,
		PricingConfig: g.PricingConfig.Data,
		IsActive:      g.IsActive,
		Version:       g.Version,
	}
}
