package repository

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"estimator-backend/calculator"
	"estimator-backend/logging"
	"estimator-backend/storage"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seeds/default_calculator.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in INR calculator as YAML.
func DefaultSeed() []byte {
	return bytes.Clone(defaultSeed)
}

// SeedFormat is the encoding of a seed document.
type SeedFormat string

const (
	FormatAuto SeedFormat = ""
	FormatJSON SeedFormat = "json"
	FormatYAML SeedFormat = "yaml"
)

// SeedShape names which historical layout a seed was written in.
type SeedShape string

const (
	ShapeCanonical    SeedShape = "canonical"
	ShapeLegacyFields SeedShape = "legacy-fields"
)

// ErrInvalidSeed wraps validation failures of an imported seed.
var ErrInvalidSeed = errors.New("invalid calculator seed")

// NormalizeReport describes what NormalizeSeed had to rewrite.
type NormalizeReport struct {
	Shape    SeedShape
	Warnings []string
}

func (r *NormalizeReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// DetectFormat sniffs raw: a document opening with '{' or '[' is JSON.
func DetectFormat(raw []byte) SeedFormat {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// FormatForFile picks a format from the file extension.
func FormatForFile(name string) SeedFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// LoadSeedFile reads a seed from disk.
func LoadSeedFile(path string) ([]byte, SeedFormat, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatAuto, fmt.Errorf("read seed %s: %w", path, err)
	}
	return raw, FormatForFile(path), nil
}

// NormalizeSeed decodes a calculator seed in any of its historical shapes and
// returns it in canonical form. It does not validate the result.
func NormalizeSeed(raw []byte, format SeedFormat) (*calculator.Calculator, NormalizeReport, error) {
	report := NormalizeReport{Shape: ShapeCanonical}

	doc, err := decodeSeed(raw, format)
	if err != nil {
		return nil, report, err
	}
	m, err := pickCalculator(doc, &report)
	if err != nil {
		return nil, report, err
	}

	if _, hasSteps := m["steps"]; !hasSteps {
		if fields, ok := m["fields"]; ok {
			steps, err := legacyFieldsToSteps(fields, &report)
			if err != nil {
				return nil, report, err
			}
			m["steps"] = steps
			report.Shape = ShapeLegacyFields
		}
	}
	delete(m, "fields")

	normalizeSteps(m, &report)
	normalizeRules(m, &report)
	normalizePricingConfig(m, &report)

	if _, ok := m["isActive"]; !ok {
		m["isActive"] = true
	}
	if v, _ := m["version"].(string); v == "" {
		m["version"] = "1.0"
	}
	if c, _ := m["currency"].(string); c == "" {
		m["currency"] = calculator.DefaultCurrency
	}

	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, report, fmt.Errorf("encode seed: %w", err)
	}
	var calc calculator.Calculator
	if err := json.Unmarshal(encoded, &calc); err != nil {
		return nil, report, fmt.Errorf("decode seed: %w", err)
	}
	return &calc, report, nil
}

// ImportSeed normalizes, validates and stores raw as the active calculator.
func ImportSeed(ctx context.Context, store storage.CalculatorStore, raw []byte, format SeedFormat) (*calculator.Calculator, NormalizeReport, error) {
	calc, report, err := NormalizeSeed(raw, format)
	if err != nil {
		return nil, report, err
	}
	for _, w := range report.Warnings {
		logging.Warn("seed normalized", zap.String("shape", string(report.Shape)), zap.String("warning", w))
	}
	if err := calc.Validate(); err != nil {
		return nil, report, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	saved, err := store.SaveCalculator(ctx, calc)
	if err != nil {
		return nil, report, fmt.Errorf("save calculator: %w", err)
	}
	logging.Info("calculator seeded",
		zap.String("id", saved.ID),
		zap.String("title", saved.Title),
		zap.Int("steps", len(saved.Steps)),
	)
	return saved, report, nil
}

// SeedIfEmpty imports raw only when no calculator is active yet. It returns
// the active calculator and whether this call created it.
func SeedIfEmpty(ctx context.Context, store storage.CalculatorStore, raw []byte, format SeedFormat) (*calculator.Calculator, bool, error) {
	existing, err := store.ActiveCalculator(ctx)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNoActiveCalculator) {
		return nil, false, err
	}
	saved, _, err := ImportSeed(ctx, store, raw, format)
	if err != nil {
		return nil, false, err
	}
	return saved, true, nil
}

func decodeSeed(raw []byte, format SeedFormat) (any, error) {
	if format == FormatAuto {
		format = DetectFormat(raw)
	}
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse json seed: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml seed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown seed format %q", format)
	}
	return stringKeys(doc), nil
}

// stringKeys rewrites YAML's map[any]any nodes so the tree can be
// re-encoded as JSON.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	}
	return v
}

// pickCalculator unwraps exports that hold a list of calculators.
func pickCalculator(doc any, report *NormalizeReport) (map[string]any, error) {
	switch t := doc.(type) {
	case map[string]any:
		return t, nil
	case []any:
		var first map[string]any
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if active, _ := m["isActive"].(bool); active {
				if len(t) > 1 {
					report.warnf("seed holds %d calculators, using the active one", len(t))
				}
				return m, nil
			}
			if first == nil {
				first = m
			}
		}
		if first != nil {
			report.warnf("seed holds %d calculators and none is active, using the first", len(t))
			return first, nil
		}
	}
	return nil, errors.New("seed does not contain a calculator object")
}

type legacyField struct {
	Name       string   `mapstructure:"name"`
	Label      string   `mapstructure:"label"`
	Type       string   `mapstructure:"type"`
	Options    []string `mapstructure:"options"`
	Multiplier float64  `mapstructure:"multiplier"`
}

// legacyFieldsToSteps converts the earliest single-page calculator layout.
// Only select fields survive: free number and text inputs have no step type.
func legacyFieldsToSteps(raw any, report *NormalizeReport) ([]any, error) {
	var fields []legacyField
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fields,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode legacy fields: %w", err)
	}

	steps := make([]any, 0, len(fields))
	for _, f := range fields {
		if f.Type != "select" {
			report.warnf("field %q of type %q has no step equivalent, skipped", f.Name, f.Type)
			continue
		}
		multiplier := f.Multiplier
		if multiplier <= 0 {
			multiplier = 1
		}
		options := make([]any, 0, len(f.Options))
		for _, o := range f.Options {
			options = append(options, map[string]any{
				"key":        o,
				"title":      o,
				"multiplier": multiplier,
			})
		}
		title := f.Label
		if title == "" {
			title = f.Name
		}
		steps = append(steps, map[string]any{
			"id":       f.Name,
			"title":    title,
			"type":     string(calculator.StepSingleSelect),
			"required": true,
			"order":    len(steps) + 1,
			"options":  options,
		})
	}
	return steps, nil
}

func normalizeSteps(m map[string]any, report *NormalizeReport) {
	steps, _ := m["steps"].([]any)
	for i, s := range steps {
		step, ok := s.(map[string]any)
		if !ok {
			continue
		}
		where := fmt.Sprintf("steps[%d]", i)
		if id, ok := step["id"].(string); ok {
			where = fmt.Sprintf("step %q", id)
		}
		normalizeCondition(step, where, report)

		opts, _ := step["options"].([]any)
		for j, o := range opts {
			if name, ok := o.(string); ok {
				opts[j] = map[string]any{"key": name, "title": name}
			}
		}
	}
}

func normalizePricingConfig(m map[string]any, report *NormalizeReport) {
	cfg, _ := m["pricingConfig"].(map[string]any)
	rules, _ := cfg["discountRules"].([]any)
	for i, r := range rules {
		if rule, ok := r.(map[string]any); ok {
			normalizeCondition(rule, fmt.Sprintf("discountRules[%d]", i), report)
		}
	}
}

// normalizeRules accepts each rule table either as an object or as a list of
// [key, value] pairs.
func normalizeRules(m map[string]any, report *NormalizeReport) {
	rules, _ := m["pricingRules"].(map[string]any)
	for name, table := range rules {
		if _, known := calculator.ParseRuleCategory(name); !known {
			report.warnf("unknown pricing rule table %q dropped", name)
			delete(rules, name)
			continue
		}
		pairs, ok := table.([]any)
		if !ok {
			continue
		}
		out := make(map[string]any, len(pairs))
		for _, p := range pairs {
			kv, ok := p.([]any)
			if !ok || len(kv) != 2 {
				report.warnf("pricingRules.%s: entry %v is not a [key, value] pair", name, p)
				continue
			}
			out[fmt.Sprint(kv[0])] = kv[1]
		}
		rules[name] = out
	}
}

var (
	jsComparison = regexp.MustCompile(`^\s*(\w+)\s*(===|!==|==|!=)\s*(["'])(.*?)["']\s*$`)
	jsLiteral    = regexp.MustCompile(`^\s*(\w+)\s*(===|!==|==|!=)\s*(true|false|-?\d+(?:\.\d+)?)\s*$`)
	jsIncludes   = regexp.MustCompile(`^\s*(\w+)\.includes\(\s*["'](.*?)["']\s*\)\s*$`)
	jsIdentifier = regexp.MustCompile(`^\s*(\w+)\s*$`)
)

// normalizeCondition rewrites holder["condition"] into the structured form.
// JavaScript expressions written by older seeds are translated when they
// are simple comparisons; anything else is kept verbatim under an
// "expression" condition, which always holds.
func normalizeCondition(holder map[string]any, where string, report *NormalizeReport) {
	raw, ok := holder["condition"]
	if !ok || raw == nil {
		return
	}
	text, isString := raw.(string)
	if !isString {
		return
	}
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		delete(holder, "condition")
	case strings.HasPrefix(text, "{"):
		if _, err := calculator.ParseCondition(text); err != nil {
			report.warnf("%s: malformed condition %q kept as an expression and always holds", where, text)
			holder["condition"] = map[string]any{"type": "expression", "value": text}
		}
	default:
		if cond, ok := convertJSExpression(text); ok {
			holder["condition"] = cond
			return
		}
		report.warnf("%s: condition %q kept as an expression and always holds", where, text)
		holder["condition"] = map[string]any{"type": "expression", "value": text}
	}
}

func convertJSExpression(expr string) (map[string]any, bool) {
	if m := jsComparison.FindStringSubmatch(expr); m != nil {
		return comparison(m[1], m[2], m[4]), true
	}
	if m := jsLiteral.FindStringSubmatch(expr); m != nil {
		var value any
		if err := json.Unmarshal([]byte(m[3]), &value); err != nil {
			return nil, false
		}
		return comparison(m[1], m[2], value), true
	}
	if m := jsIncludes.FindStringSubmatch(expr); m != nil {
		return map[string]any{"type": string(calculator.CondIncludes), "field": m[1], "value": m[2]}, true
	}
	if m := jsIdentifier.FindStringSubmatch(expr); m != nil {
		return map[string]any{"type": string(calculator.CondExists), "field": m[1]}, true
	}
	return nil, false
}

func comparison(field, op string, value any) map[string]any {
	typ := calculator.CondEquals
	if strings.HasPrefix(op, "!") {
		typ = calculator.CondNotEquals
	}
	return map[string]any{"type": string(typ), "field": field, "value": value}
}
