package calculator

// Well-known selection fields read by the pricing engine.
const (
	FieldProjectType          = "projectType"
	FieldSelectedIndustries   = "selectedIndustries"
	FieldSelectedServices     = "selectedServices"
	FieldSelectedFeatures     = "selectedFeatures"
	FieldSelectedPlatforms    = "selectedPlatforms"
	FieldSelectedIntegrations = "selectedIntegrations"
	FieldSelectedTechStack    = "selectedTechStack"
	FieldScope                = "scope"
	FieldTeam                 = "team"
	FieldTimeline             = "timeline"
	FieldSupport              = "support"
	FieldCurrentStep          = "currentStep"
)

// Selections are the user's answers so far. The map form keeps absent and
// null fields distinguishable, which the condition evaluator relies on.
type Selections map[string]any

// Lookup returns the raw value of field and whether it is present.
func (s Selections) Lookup(field string) (any, bool) {
	v, ok := s[field]
	return v, ok
}

// String returns field when it holds a string, "" otherwise.
func (s Selections) String(field string) string {
	v, _ := s[field].(string)
	return v
}

// Strings returns the string entries of a list-valued field, in selection
// order. Non-string entries are skipped.
func (s Selections) Strings(field string) []string {
	switch v := s[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Int returns a numeric field truncated to int, or 0.
func (s Selections) Int(field string) int {
	if n, ok := toFloat(s[field]); ok {
		return int(n)
	}
	return 0
}
