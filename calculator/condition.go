package calculator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ConditionType is the tag of a serialized condition.
type ConditionType string

const (
	CondEquals    ConditionType = "equals"
	CondNotEquals ConditionType = "not_equals"
	CondIncludes  ConditionType = "includes"
	CondExists    ConditionType = "exists"
)

// Condition is a predicate over Selections. The concrete kinds are Equals,
// NotEquals, Includes, Exists and Unknown.
type Condition interface {
	Holds(sel Selections) bool
	isCondition()
}

// Equals holds when the field is present and strictly equal to Value.
type Equals struct {
	Field string
	Value any
}

// NotEquals is the negation of Equals. An absent field satisfies it.
type NotEquals struct {
	Field string
	Value any
}

// Includes holds when the field is a list containing Value, or a string
// containing Value as a substring.
type Includes struct {
	Field string
	Value any
}

// Exists holds when the field is present and not null.
type Exists struct {
	Field string
}

// Unknown is a condition with an unrecognized type tag. It always holds.
type Unknown struct {
	Type string
}

func (Equals) isCondition()    {}
func (NotEquals) isCondition() {}
func (Includes) isCondition()  {}
func (Exists) isCondition()    {}
func (Unknown) isCondition()   {}

func (c Equals) Holds(sel Selections) bool {
	v, ok := sel.Lookup(c.Field)
	return ok && strictEqual(v, c.Value)
}

func (c NotEquals) Holds(sel Selections) bool {
	return !Equals(c).Holds(sel)
}

func (c Includes) Holds(sel Selections) bool {
	v, ok := sel.Lookup(c.Field)
	if !ok {
		return false
	}
	switch list := v.(type) {
	case string:
		sub, isString := c.Value.(string)
		return isString && strings.Contains(list, sub)
	case []any:
		for _, item := range list {
			if strictEqual(item, c.Value) {
				return true
			}
		}
	case []string:
		for _, item := range list {
			if strictEqual(item, c.Value) {
				return true
			}
		}
	}
	return false
}

func (c Exists) Holds(sel Selections) bool {
	v, ok := sel.Lookup(c.Field)
	return ok && v != nil
}

func (Unknown) Holds(Selections) bool { return true }

// Evaluate reports whether cond holds for sel. A nil condition always holds.
func Evaluate(cond Condition, sel Selections) bool {
	if cond == nil {
		return true
	}
	return cond.Holds(sel)
}

// ErrMalformedCondition wraps every condition parse failure.
var ErrMalformedCondition = errors.New("malformed condition")

type wireCondition struct {
	Type  string          `json:"type"`
	Field string          `json:"field"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ParseCondition decodes the serialized {"type","field","value"} form.
func ParseCondition(raw string) (Condition, error) {
	var w wireCondition
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCondition, err)
	}

	var value any
	if len(w.Value) > 0 {
		vd := json.NewDecoder(bytes.NewReader(w.Value))
		vd.UseNumber()
		if err := vd.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: value: %v", ErrMalformedCondition, err)
		}
	}

	switch ConditionType(w.Type) {
	case CondEquals, CondNotEquals, CondIncludes, CondExists:
		if w.Field == "" {
			return nil, fmt.Errorf("%w: %q condition without field", ErrMalformedCondition, w.Type)
		}
	}

	switch ConditionType(w.Type) {
	case CondEquals:
		return Equals{Field: w.Field, Value: value}, nil
	case CondNotEquals:
		return NotEquals{Field: w.Field, Value: value}, nil
	case CondIncludes:
		return Includes{Field: w.Field, Value: value}, nil
	case CondExists:
		return Exists{Field: w.Field}, nil
	}
	return Unknown{Type: w.Type}, nil
}

// FormatCondition renders c in its serialized form.
func FormatCondition(c Condition) string {
	var w struct {
		Type  string `json:"type"`
		Field string `json:"field,omitempty"`
		Value any    `json:"value,omitempty"`
	}
	switch v := c.(type) {
	case Equals:
		w.Type, w.Field, w.Value = string(CondEquals), v.Field, v.Value
	case NotEquals:
		w.Type, w.Field, w.Value = string(CondNotEquals), v.Field, v.Value
	case Includes:
		w.Type, w.Field, w.Value = string(CondIncludes), v.Field, v.Value
	case Exists:
		w.Type, w.Field = string(CondExists), v.Field
	case Unknown:
		w.Type = v.Type
	}
	out, _ := json.Marshal(w)
	return string(out)
}

// ConditionExpr is a condition as stored on a step or discount rule. It keeps
// the stored text and the result of parsing it once at load time. A nil
// *ConditionExpr means "no condition".
type ConditionExpr struct {
	raw  string
	cond Condition
	err  error
}

// NewConditionExpr parses raw. Parse failures are retained, not returned:
// the expression then behaves as no condition.
func NewConditionExpr(raw string) *ConditionExpr {
	cond, err := ParseCondition(raw)
	return &ConditionExpr{raw: raw, cond: cond, err: err}
}

// When wraps an already built condition.
func When(c Condition) *ConditionExpr {
	return &ConditionExpr{raw: FormatCondition(c), cond: c}
}

// Raw returns the stored text.
func (e *ConditionExpr) Raw() string {
	if e == nil {
		return ""
	}
	return e.raw
}

// Condition returns the parsed condition, or nil when absent or malformed.
func (e *ConditionExpr) Condition() Condition {
	if e == nil || e.err != nil {
		return nil
	}
	return e.cond
}

// Err returns the parse error, if any.
func (e *ConditionExpr) Err() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Holds evaluates the expression. Absent and malformed expressions hold.
func (e *ConditionExpr) Holds(sel Selections) bool {
	return Evaluate(e.Condition(), sel)
}

// MarshalJSON writes the stored text as a JSON string.
func (e *ConditionExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.raw)
}

// UnmarshalJSON accepts the stored string form or an inline object.
func (e *ConditionExpr) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*e = *NewConditionExpr(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	*e = *NewConditionExpr(buf.String())
	return nil
}

// strictEqual compares scalars the way a strict equality check would:
// values of different kinds are never equal, lists and objects never are.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
