package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stepIDs(steps []Step) []string {
	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestVisibleSteps(t *testing.T) {
	calc := &Calculator{Steps: []Step{
		{ID: "contact", Order: 9},
		{ID: "project-type", Order: 1},
		{ID: "platforms", Order: 3, Condition: When(NotEquals{Field: "projectType", Value: "website"})},
		{ID: "industries"},
		{ID: "features", Order: 3},
		{ID: "broken", Order: 3, Condition: NewConditionExpr("projectType !== 'website'")},
		{ID: "intro"},
	}}

	tests := []struct {
		name string
		sel  Selections
		want []string
	}{
		{
			name: "website hides platforms",
			sel:  Selections{"projectType": "website"},
			want: []string{"industries", "intro", "project-type", "features", "broken", "contact"},
		},
		{
			name: "web app shows platforms",
			sel:  Selections{"projectType": "web-app"},
			want: []string{"industries", "intro", "project-type", "platforms", "features", "broken", "contact"},
		},
		{
			name: "nothing selected yet",
			sel:  nil,
			want: []string{"industries", "intro", "project-type", "platforms", "features", "broken", "contact"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stepIDs(VisibleSteps(calc, tt.sel)))
		})
	}
}

func TestVisibleStepsEmpty(t *testing.T) {
	got := VisibleSteps(&Calculator{}, Selections{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVisibleStepsLeavesInputUntouched(t *testing.T) {
	calc := &Calculator{Steps: []Step{{ID: "b", Order: 2}, {ID: "a", Order: 1}}}
	VisibleSteps(calc, Selections{})
	assert.Equal(t, []string{"b", "a"}, stepIDs(calc.Steps))
}

func TestVisibleStepsIncludesSubstring(t *testing.T) {
	calc := &Calculator{Steps: []Step{
		{ID: "app-store", Order: 1, Condition: When(Includes{Field: "projectType", Value: "app"})},
		{ID: "web-hosting", Order: 2, Condition: When(Includes{Field: "projectType", Value: "web"})},
	}}

	tests := []struct {
		projectType string
		want        []string
	}{
		{"mobile-app", []string{"app-store"}},
		{"web-app", []string{"app-store", "web-hosting"}},
		{"website", []string{"web-hosting"}},
		{"desktop", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.projectType, func(t *testing.T) {
			got := VisibleSteps(calc, Selections{"projectType": tt.projectType})
			assert.Equal(t, tt.want, stepIDs(got))
		})
	}
}
