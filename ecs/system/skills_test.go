package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/skirmish/ecs/component"
)

func TestRandomSkillSelector(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		roll    float64
		want    int
	}{
		{"no_options", nil, 0.7, 0},
		{"low_roll", []string{"a", "b", "c"}, 0.1, 0},
		{"middle", []string{"a", "b", "c"}, 0.5, 1},
		{"high_roll", []string{"a", "b", "c"}, 0.99, 2},
		{"roll_of_one_clamps", []string{"a", "b"}, 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RandomSkillSelector{}.SelectSkill(nil, SkillRequest{Options: tc.options, Roll: tc.roll})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScriptSkillSelector(t *testing.T) {
	sel := NewScriptSkillSelector(newTestSim(t, Options{}).Ctx)

	scripted := &component.Species{Name: "spitter", SkillScript: "dual_skill.tengo"}
	missing := &component.Species{Name: "spitter", SkillScript: "nope.tengo"}
	two := []string{"venom", "tar"}

	tests := []struct {
		name    string
		species *component.Species
		req     SkillRequest
		want    int
	}{
		{"low_health_prefers_tar", scripted, SkillRequest{Options: two, HealthFraction: 0.2, Distance: 200}, 1},
		{"far_low_roll", scripted, SkillRequest{Options: two, HealthFraction: 1, Distance: 200, Roll: 0.5}, 0},
		{"far_high_roll", scripted, SkillRequest{Options: two, HealthFraction: 1, Distance: 200, Roll: 0.8}, 1},
		{"near_low_roll", scripted, SkillRequest{Options: two, HealthFraction: 1, Distance: 50, Roll: 0.2}, 0},
		{"near_high_roll", scripted, SkillRequest{Options: two, HealthFraction: 1, Distance: 50, Roll: 0.5}, 1},
		{"single_option", scripted, SkillRequest{Options: []string{"venom"}, HealthFraction: 0.1, Roll: 0.9}, 0},
		{"missing_script_falls_back", missing, SkillRequest{Options: two, Roll: 0.9}, 1},
		{"no_script_is_random", &component.Species{}, SkillRequest{Options: two, Roll: 0.2}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sel.SelectSkill(tc.species, tc.req))
		})
	}

	// cached and failed entries can both be dropped
	sel.Invalidate("dual_skill.tengo")
	sel.Invalidate("nope.tengo")
	assert.Equal(t, 1, sel.SelectSkill(scripted, SkillRequest{Options: two, HealthFraction: 0.1}))
}
