// Command simulate runs an arena encounter headless and prints the gameplay
// event log.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
)

func main() {
	arena := flag.String("arena", "arena.yaml", "arena prefab to load")
	seed := flag.Int64("seed", 1, "simulation RNG seed")
	seconds := flag.Float64("seconds", 120, "simulated time limit")
	tps := flag.Int("tps", 60, "simulation ticks per second")
	autopilot := flag.Bool("bot", true, "let a simple bot fight for the player")
	only := flag.String("events", "", "comma-separated event types to print (default all but health and state changes)")
	verbose := flag.Bool("v", false, "log system warnings")
	flag.Parse()

	logger := log.New(os.Stderr, "simulate: ", 0)
	opts := system.Options{Seed: *seed, Logger: logger}
	if !*verbose {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	sess, err := system.LoadSession(*arena, opts)
	if err != nil {
		logger.Fatal(err)
	}

	filter := eventFilter(*only)
	sim := sess.Sim
	sim.Subscribe("", func(evt ecs.Event) {
		if filter(evt.Type) {
			fmt.Printf("%8.3fs  %s\n", sim.Ctx.Time, system.DescribeEvent(evt))
		}
	})

	var b *bot
	if *autopilot {
		b = newBot(sess)
	}

	if *tps <= 0 {
		*tps = 60
	}
	dt := 1 / float64(*tps)
	steps := int(*seconds * float64(*tps))
	for i := 0; i < steps; i++ {
		b.drive()
		sim.Step(dt)
		if sim.Director.EncounterComplete() || !sess.PlayerAlive() {
			break
		}
	}

	printSummary(sess)
}

func eventFilter(only string) func(string) bool {
	if strings.TrimSpace(only) == "" {
		return func(typ string) bool {
			return typ != system.EventHealthChanged && typ != system.EventStateChanged
		}
	}
	allowed := map[string]bool{}
	for _, t := range strings.Split(only, ",") {
		allowed[strings.TrimSpace(t)] = true
	}
	return func(typ string) bool { return allowed[typ] }
}

func printSummary(sess *system.Session) {
	w := sess.Sim.World
	d := sess.Sim.Director
	fmt.Printf("\nafter %.2fs: wave %d, spawned %d, creatures alive %d, encounter complete %v\n",
		sess.Sim.Ctx.Time, d.Wave()+1, d.Spawned(), ecs.Count(w, component.CreatureTagComponent.Kind()), d.EncounterComplete())

	h, _ := ecs.Get(w, sess.Player, component.HealthComponent.Kind())
	prog, _ := ecs.Get(w, sess.Player, component.ProgressionComponent.Kind())
	if h != nil && prog != nil {
		fmt.Printf("player: %d/%d hp, level %d, %d exp, score %d\n", h.Current, h.Max, prog.Level, prog.Experience, prog.Score)
	}

	rec, err := system.CapturePlayer(w, sess.Player)
	if err != nil {
		return
	}
	records := rec.Records()
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s=%s\n", k, records[k])
	}
}
