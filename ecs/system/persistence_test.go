package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

func TestPlayerRecord_RoundTrip(t *testing.T) {
	sim := newTestSim(t, Options{})
	w := sim.World
	player := spawnPlayer(t, w, testPlayerSpec(), 0, 0)

	prog, _ := ecs.Get(w, player, component.ProgressionComponent.Kind())
	prog.Level = 3
	prog.Experience = 130
	prog.Score = 420
	prog.Coins = 7
	prog.Skills = []string{"dash", "cleave"}
	prog.Equipment = []string{"iron_sword"}

	stats, _ := ecs.Get(w, player, component.StatsComponent.Kind())
	stats.Defense.SetBase(2.5)
	stats.AttackPower.SetEquip(4)
	healthOf(t, w, player).Current = 64

	rec, err := CapturePlayer(w, player)
	require.NoError(t, err)
	assert.Equal(t, 2.5, rec.Stats[component.StatDefense])
	assert.Equal(t, 10.0, rec.Stats[component.StatAttackPower], "only base values persist")

	raw := rec.Records()
	assert.Equal(t, "3", raw["level"])
	assert.Equal(t, "dash,cleave", raw["skills"])

	parsed, err := ParseRecords(raw)
	require.NoError(t, err)
	assert.Equal(t, rec, parsed)

	fresh := ecs.CreateEntity(w)
	ecs.DestroyEntity(w, fresh)
	assert.ErrorIs(t, RestorePlayer(w, fresh, parsed), component.ErrEntityNotAlive)

	restored := spawnPlayer(t, w, testPlayerSpec(), 0, 0)
	require.NoError(t, RestorePlayer(w, restored, parsed))

	rp, _ := ecs.Get(w, restored, component.ProgressionComponent.Kind())
	assert.Equal(t, 3, rp.Level)
	assert.Equal(t, 130, rp.Experience)
	assert.Equal(t, 420, rp.Score)
	assert.Equal(t, 7, rp.Coins)
	assert.Equal(t, []string{"dash", "cleave"}, rp.Skills)
	assert.Equal(t, []string{"iron_sword"}, rp.Equipment)

	rs, _ := ecs.Get(w, restored, component.StatsComponent.Kind())
	assert.Equal(t, 2.5, rs.Defense.EffectiveValue())
	assert.Equal(t, 120.0, rs.MaxHealth.EffectiveValue(), "two levels of health upgrades")

	atk, _ := ecs.Get(w, restored, component.AttackProfileComponent.Kind())
	assert.Equal(t, 4, atk.AdditionalDamage)

	h := healthOf(t, w, restored)
	assert.Equal(t, 64, h.Current)
	assert.Equal(t, rec.MaxHealth, h.Max)
	assert.False(t, h.Dead)
}

func TestRestorePlayer_ClampsHealth(t *testing.T) {
	tests := []struct {
		name     string
		rec      PlayerRecord
		wantCur  int
		wantMax  int
		wantDead bool
	}{
		{"over_max", PlayerRecord{Level: 1, Health: 500, MaxHealth: 100}, 100, 100, false},
		{"negative", PlayerRecord{Level: 1, Health: -5, MaxHealth: 100}, 0, 100, true},
		{"max_from_stats", PlayerRecord{Level: 2, Health: 50}, 50, 110, false},
		{"level_floor", PlayerRecord{Health: 10, MaxHealth: 100}, 10, 100, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sim := newTestSim(t, Options{})
			player := spawnPlayer(t, sim.World, testPlayerSpec(), 0, 0)
			require.NoError(t, RestorePlayer(sim.World, player, tc.rec))

			h := healthOf(t, sim.World, player)
			assert.Equal(t, tc.wantCur, h.Current)
			assert.Equal(t, tc.wantMax, h.Max)
			assert.Equal(t, tc.wantDead, h.Dead)

			prog, _ := ecs.Get(sim.World, player, component.ProgressionComponent.Kind())
			assert.GreaterOrEqual(t, prog.Level, 1)
		})
	}
}

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]string
		wantErr bool
		check   func(t *testing.T, rec PlayerRecord)
	}{
		{
			name: "empty",
			in:   map[string]string{},
			check: func(t *testing.T, rec PlayerRecord) {
				assert.Zero(t, rec.Level)
				assert.Nil(t, rec.Skills)
				assert.Empty(t, rec.Stats)
			},
		},
		{
			name: "trims_lists_and_ignores_unknown",
			in:   map[string]string{"skills": " dash , ,cleave ", "nickname": "x", "stat.crit_rate": "0.25"},
			check: func(t *testing.T, rec PlayerRecord) {
				assert.Equal(t, []string{"dash", "cleave"}, rec.Skills)
				assert.Equal(t, 0.25, rec.Stats[component.StatCritRate])
			},
		},
		{name: "bad_int", in: map[string]string{"level": "three"}, wantErr: true},
		{name: "bad_stat", in: map[string]string{"stat.defense": "lots"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := ParseRecords(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, rec)
		})
	}
}
