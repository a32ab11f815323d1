package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFill(t *testing.T) {
	vars := map[string]string{
		"persona":         "Mia, 9, shy",
		"background_info": "piano teacher",
	}

	tests := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{"no placeholders", "plain text", vars, "plain text"},
		{"single", "Persona: {persona}", vars, "Persona: Mia, 9, shy"},
		{"repeated", "{persona} and {persona}", vars, "Mia, 9, shy and Mia, 9, shy"},
		{"multiple", "{persona} / {background_info}", vars, "Mia, 9, shy / piano teacher"},
		{"unknown stays intact", "hi {missing}", vars, "hi {missing}"},
		{"nil vars", "hi {persona}", nil, "hi {persona}"},
		{"json braces untouched", `{"passed": true}`, vars, `{"passed": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fill(tt.template, tt.vars))
		})
	}
}

func TestDefaultInstructions(t *testing.T) {
	for _, name := range []string{RoleStudent, RoleCoach, RoleJudge, RoleDirector} {
		assert.NotEmpty(t, defaultInstructions[name], name)
	}
	assert.Contains(t, defaultInstructions[RoleStudent], "{persona}")
	assert.Contains(t, defaultInstructions[RoleJudge], `"passed"`)
}
