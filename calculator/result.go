package calculator

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceResult is a priced quote.
type PriceResult struct {
	BasePrice      decimal.Decimal `json:"basePrice"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
	LowEstimate    decimal.Decimal `json:"lowEstimate"`
	HighEstimate   decimal.Decimal `json:"highEstimate"`
	GSTAmount      decimal.Decimal `json:"gstAmount"`
	TotalWithGST   decimal.Decimal `json:"totalWithGST"`
	Currency       string          `json:"currency"`
	EstimateRange  string          `json:"estimateRange"`
	FormattedPrice string          `json:"formattedPrice"`
	FormattedTotal string          `json:"formattedTotal"`
	Breakdown      Breakdown       `json:"breakdown"`
}

// Breakdown itemizes every adjustment made while pricing.
type Breakdown struct {
	BasePrice    decimal.Decimal   `json:"basePrice"`
	Adjustments  []Adjustment      `json:"adjustments"`
	Features     []LineItem        `json:"features"`
	Services     []LineItem        `json:"services"`
	Platforms    []LineItem        `json:"platforms"`
	Integrations []LineItem        `json:"integrations"`
	TechStack    []LineItem        `json:"techStack"`
	Support      []LineItem        `json:"support"`
	Discounts    []AppliedDiscount `json:"discounts"`
}

func newBreakdown(base decimal.Decimal) Breakdown {
	return Breakdown{
		BasePrice:    base,
		Adjustments:  []Adjustment{},
		Features:     []LineItem{},
		Services:     []LineItem{},
		Platforms:    []LineItem{},
		Integrations: []LineItem{},
		TechStack:    []LineItem{},
		Support:      []LineItem{},
		Discounts:    []AppliedDiscount{},
	}
}

// Items returns the line item list for an additive category.
func (b *Breakdown) Items(c RuleCategory) *[]LineItem {
	switch c {
	case FeatureCosts:
		return &b.Features
	case ServiceCosts:
		return &b.Services
	case PlatformCosts:
		return &b.Platforms
	case IntegrationCosts:
		return &b.Integrations
	case TechStackCosts:
		return &b.TechStack
	case SupportCosts:
		return &b.Support
	}
	return nil
}

// Adjustment records one multiplier applied to the running price.
type Adjustment struct {
	Type        string          `json:"type"`
	Factor      decimal.Decimal `json:"factor"`
	Description string          `json:"description"`
}

// LineItem records one additive cost. On the wire the option key sits under
// a category-specific name, e.g. {"feature": "Chat", "cost": 15000, ...}.
type LineItem struct {
	Category    RuleCategory
	Key         string
	Cost        decimal.Decimal
	Description string
}

var itemKeys = map[RuleCategory]string{
	FeatureCosts:     "feature",
	ServiceCosts:     "service",
	PlatformCosts:    "platform",
	IntegrationCosts: "integration",
	TechStackCosts:   "tech",
	SupportCosts:     "support",
}

var itemDescriptions = map[RuleCategory]string{
	FeatureCosts:     "%s feature implementation",
	ServiceCosts:     "%s service",
	PlatformCosts:    "%s platform development",
	IntegrationCosts: "%s integration",
	TechStackCosts:   "%s technology implementation",
	SupportCosts:     "%s support package",
}

func describeItem(c RuleCategory, key string) string {
	return fmt.Sprintf(itemDescriptions[c], key)
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	name, ok := itemKeys[li.Category]
	if !ok {
		name = "item"
	}
	return json.Marshal(map[string]any{
		name:          li.Key,
		"cost":        li.Cost,
		"description": li.Description,
	})
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*li = LineItem{}
	for cat, name := range itemKeys {
		if raw, ok := fields[name]; ok {
			li.Category = cat
			if err := json.Unmarshal(raw, &li.Key); err != nil {
				return err
			}
			break
		}
	}
	if raw, ok := fields["cost"]; ok {
		if err := json.Unmarshal(raw, &li.Cost); err != nil {
			return err
		}
	}
	if raw, ok := fields["description"]; ok {
		if err := json.Unmarshal(raw, &li.Description); err != nil {
			return err
		}
	}
	return nil
}

// AppliedDiscount records a discount rule whose condition held. Applied is
// false in informational mode.
type AppliedDiscount struct {
	Description     string          `json:"description"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Amount          decimal.Decimal `json:"amount"`
	Applied         bool            `json:"applied"`
}
