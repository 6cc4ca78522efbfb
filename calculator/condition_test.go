package calculator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	sel := Selections{
		"projectType":        "web-app",
		"selectedIndustries": []any{"Healthcare", "Startup"},
		"budget":             float64(5),
		"nothing":            nil,
		"flag":               true,
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"nil condition", nil, true},
		{"equals match", Equals{Field: "projectType", Value: "web-app"}, true},
		{"equals mismatch", Equals{Field: "projectType", Value: "website"}, false},
		{"equals absent field", Equals{Field: "scope", Value: "mvp"}, false},
		{"equals type mismatch", Equals{Field: "budget", Value: "5"}, false},
		{"equals number", Equals{Field: "budget", Value: json.Number("5")}, true},
		{"equals bool", Equals{Field: "flag", Value: true}, true},
		{"equals list never", Equals{Field: "selectedIndustries", Value: []any{"Healthcare", "Startup"}}, false},
		{"not_equals match", NotEquals{Field: "projectType", Value: "website"}, true},
		{"not_equals same", NotEquals{Field: "projectType", Value: "web-app"}, false},
		{"not_equals absent", NotEquals{Field: "scope", Value: "mvp"}, true},
		{"includes hit", Includes{Field: "selectedIndustries", Value: "Startup"}, true},
		{"includes miss", Includes{Field: "selectedIndustries", Value: "Retail"}, false},
		{"includes absent", Includes{Field: "selectedFeatures", Value: "Chat"}, false},
		{"includes substring", Includes{Field: "projectType", Value: "web"}, true},
		{"includes substring miss", Includes{Field: "projectType", Value: "mobile"}, false},
		{"includes number on string", Includes{Field: "projectType", Value: json.Number("1")}, false},
		{"exists present", Exists{Field: "projectType"}, true},
		{"exists null", Exists{Field: "nothing"}, false},
		{"exists absent", Exists{Field: "scope"}, false},
		{"unknown type", Unknown{Type: "includes_any"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.cond, sel))
		})
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Condition
		wantErr bool
	}{
		{
			name: "not_equals",
			raw:  `{"type":"not_equals","field":"projectType","value":"website"}`,
			want: NotEquals{Field: "projectType", Value: "website"},
		},
		{
			name: "exists without value",
			raw:  `{"type":"exists","field":"scope"}`,
			want: Exists{Field: "scope"},
		},
		{
			name: "numeric value keeps precision",
			raw:  `{"type":"equals","field":"budget","value":100000}`,
			want: Equals{Field: "budget", Value: json.Number("100000")},
		},
		{
			name: "unknown type",
			raw:  `{"type":"includes_any","field":"projectType","values":["a"]}`,
			want: Unknown{Type: "includes_any"},
		},
		{name: "not json", raw: `projectType !== "website"`, wantErr: true},
		{name: "missing field", raw: `{"type":"equals","value":"x"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCondition(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedCondition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConditionExprFailsOpen(t *testing.T) {
	sel := Selections{"projectType": "website"}

	var absent *ConditionExpr
	assert.True(t, absent.Holds(sel))

	malformed := NewConditionExpr("{not json")
	assert.Error(t, malformed.Err())
	assert.Nil(t, malformed.Condition())
	assert.True(t, malformed.Holds(sel))

	gate := NewConditionExpr(`{"type":"not_equals","field":"projectType","value":"website"}`)
	require.NoError(t, gate.Err())
	assert.False(t, gate.Holds(sel))
}

func TestConditionExprJSON(t *testing.T) {
	var step Step
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "platforms",
		"condition": {"type": "includes", "field": "selectedServices", "value": "Mobile"}
	}`), &step))
	require.NotNil(t, step.Condition)
	assert.Equal(t, Includes{Field: "selectedServices", Value: "Mobile"}, step.Condition.Condition())

	out, err := json.Marshal(step)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"condition":"{\"type\":\"includes\",\"field\":\"selectedServices\",\"value\":\"Mobile\"}"`)

	var noCond Step
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","condition":null}`), &noCond))
	assert.Nil(t, noCond.Condition)
}

func TestWhenFormatsCondition(t *testing.T) {
	expr := When(NotEquals{Field: "projectType", Value: "website"})
	assert.Equal(t, `{"type":"not_equals","field":"projectType","value":"website"}`, expr.Raw())

	reparsed := NewConditionExpr(expr.Raw())
	require.NoError(t, reparsed.Err())
	assert.True(t, reparsed.Holds(Selections{"projectType": "web-app"}))
}
