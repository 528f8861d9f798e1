package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

// SkillRequest is what a selector knows when a dual-skill creature starts an
// attack.
type SkillRequest struct {
	Entity         ecs.Entity
	Options        []string
	Distance       float64
	HealthFraction float64
	// Roll is a uniform [0, 1) draw from the simulation RNG.
	Roll float64
}

// RandomSkillSelector picks uniformly using the request's roll.
type RandomSkillSelector struct{}

func (RandomSkillSelector) SelectSkill(_ *component.Species, req SkillRequest) int {
	n := len(req.Options)
	if n == 0 {
		return 0
	}
	idx := int(req.Roll * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

const skillDispatchScript = `
__choice := choose(__options, __roll, __distance, __health)
`

// ScriptSkillSelector asks a species' tengo script to choose. The script must
// define choose(options, roll, distance, health) returning an index. Species
// without a script, and scripts that fail, fall back to the random selector.
type ScriptSkillSelector struct {
	ctx      *Context
	compiled map[string]*tengo.Compiled
	failed   map[string]bool
}

func NewScriptSkillSelector(ctx *Context) *ScriptSkillSelector {
	return &ScriptSkillSelector{
		ctx:      ctx,
		compiled: map[string]*tengo.Compiled{},
		failed:   map[string]bool{},
	}
}

func (s *ScriptSkillSelector) SelectSkill(species *component.Species, req SkillRequest) int {
	if s == nil || species == nil || strings.TrimSpace(species.SkillScript) == "" {
		return RandomSkillSelector{}.SelectSkill(species, req)
	}
	idx, err := s.run(species.SkillScript, req)
	if err != nil {
		s.ctx.warnOnce(req.Entity, "skill_script", "skill script %s: %v", species.SkillScript, err)
		return RandomSkillSelector{}.SelectSkill(species, req)
	}
	return idx
}

// Invalidate drops a cached script so the next selection reloads it.
func (s *ScriptSkillSelector) Invalidate(name string) {
	if s == nil {
		return
	}
	delete(s.compiled, name)
	delete(s.failed, name)
}

func (s *ScriptSkillSelector) run(name string, req SkillRequest) (int, error) {
	compiled, err := s.load(name)
	if err != nil {
		return 0, err
	}

	options := make([]any, len(req.Options))
	for i, o := range req.Options {
		options[i] = o
	}
	if err := compiled.Set("__options", options); err != nil {
		return 0, err
	}
	if err := compiled.Set("__roll", req.Roll); err != nil {
		return 0, err
	}
	if err := compiled.Set("__distance", req.Distance); err != nil {
		return 0, err
	}
	if err := compiled.Set("__health", req.HealthFraction); err != nil {
		return 0, err
	}
	if err := compiled.Run(); err != nil {
		return 0, err
	}
	if !compiled.IsDefined("__choice") {
		return 0, fmt.Errorf("no choice produced")
	}
	idx := compiled.Get("__choice").Int()
	if idx < 0 || idx >= len(req.Options) {
		return 0, fmt.Errorf("choice %d out of range", idx)
	}
	return idx, nil
}

func (s *ScriptSkillSelector) load(name string) (*tengo.Compiled, error) {
	if c, ok := s.compiled[name]; ok {
		return c, nil
	}
	if s.failed[name] {
		return nil, fmt.Errorf("previously failed to compile")
	}

	src, err := prefabs.LoadScript(name)
	if err != nil {
		s.failed[name] = true
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + skillDispatchScript))
	_ = script.Add("__options", []any{})
	_ = script.Add("__roll", 0.0)
	_ = script.Add("__distance", 0.0)
	_ = script.Add("__health", 0.0)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		s.failed[name] = true
		return nil, err
	}
	s.compiled[name] = compiled
	return compiled, nil
}
