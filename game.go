package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/prefabs"
)

const (
	tps           = 60
	stickDeadzone = 0.2
	eventLogLines = 6
)

type gameOptions struct {
	arena string
	seed  int64
	debug bool
}

// Game hosts a combat session: it feeds keyboard and gamepad input to the
// player, steps the simulation once per ebiten tick and draws every actor as
// a circle.
type Game struct {
	opts    gameOptions
	sess    *system.Session
	watcher *prefabs.Watcher

	pauseUI          *overlay
	endUI            *overlay
	quit             bool
	restartRequested bool

	frames int
	events []string
}

func NewGame(opts gameOptions, watcher *prefabs.Watcher) (*Game, error) {
	g := &Game{opts: opts, watcher: watcher}
	if err := g.restart(); err != nil {
		return nil, err
	}
	width, height := g.Layout(0, 0)
	g.pauseUI = NewPauseUI(g, width, height)
	g.endUI = NewEndUI(g, width, height)
	return g, nil
}

func (g *Game) restart() error {
	sess, err := system.LoadSession(g.opts.arena, system.Options{Seed: g.opts.seed, Logger: log.Default()})
	if err != nil {
		return fmt.Errorf("load %s: %w", g.opts.arena, err)
	}
	g.sess = sess
	g.events = g.events[:0]
	sess.Sim.Subscribe("", g.recordEvent)
	return nil
}

func (g *Game) recordEvent(evt ecs.Event) {
	switch evt.Type {
	case system.EventHealthChanged, system.EventStateChanged:
		return
	}
	g.events = append(g.events, system.DescribeEvent(evt))
	if len(g.events) > eventLogLines {
		g.events = g.events[len(g.events)-eventLogLines:]
	}
}

func (g *Game) requestRestart() { g.restartRequested = true }

// activeOverlay returns the panel to show this frame, or nil while the
// encounter is running.
func (g *Game) activeOverlay() *overlay {
	switch {
	case g.sess.Sim.Paused():
		return g.pauseUI
	case !g.sess.PlayerAlive():
		g.endUI.SetTitle("Defeated")
		return g.endUI
	case g.sess.Sim.Director.EncounterComplete():
		g.endUI.SetTitle("Encounter complete")
		return g.endUI
	}
	return nil
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.sess.Sim.SetPaused(!g.sess.Sim.Paused())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.requestRestart()
	}
	if ui := g.activeOverlay(); ui != nil {
		ui.Update()
	}
	if g.quit {
		return ebiten.Termination
	}
	if g.restartRequested {
		g.restartRequested = false
		if err := g.restart(); err != nil {
			log.Printf("restart: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.opts.debug = !g.opts.debug
	}

	if g.watcher != nil {
		g.sess.Reload(g.watcher.Pending())
	}

	g.readInput()
	g.sess.Sim.Step(1 / float64(ebiten.TPS()))
	return nil
}

// readInput writes this tick's command into the player's PlayerControl.
func (g *Game) readInput() {
	w := g.sess.Sim.World
	ctrl, ok := ecs.Get(w, g.sess.Player, component.PlayerControlComponent.Kind())
	if !ok {
		return
	}

	moveX, moveY := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		moveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		moveX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		moveY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		moveY++
	}
	attack := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	aimX, aimY := 0.0, 0.0
	if tr, ok := ecs.Get(w, g.sess.Player, component.TransformComponent.Kind()); ok {
		cx, cy := ebiten.CursorPosition()
		aimX, aimY = float64(cx)-tr.X, float64(cy)-tr.Y
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			moveX, moveY = lx, ly
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			aimX, aimY = rx, ry
		}
		attack = attack || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}

	ctrl.MoveX, ctrl.MoveY = moveX, moveY
	ctrl.AimX, ctrl.AimY = aimX, aimY
	// Attack is consumed by the player control system; only ever set it here.
	ctrl.Attack = ctrl.Attack || attack
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	w := g.sess.Sim.World

	for _, r := range g.sess.Arena.Obstacles {
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), colornames.Darkslategray, false)
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, tr *component.Transform) {
		clr := actorColor(w, e)
		x, y, r := float32(tr.X), float32(tr.Y), float32(body.Radius)
		vector.DrawFilledCircle(screen, x, y, r, clr, true)
		// facing
		fx := x + r*float32(math.Cos(tr.Rotation))
		fy := y + r*float32(math.Sin(tr.Rotation))
		vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.White, true)

		if shield, ok := ecs.Get(w, e, component.ShieldComponent.Kind()); ok && shield.Charges > 0 {
			vector.StrokeCircle(screen, x, y, r+3, float32(shield.Charges), colornames.Gold, true)
		}
		if g.opts.debug {
			g.drawDebug(screen, e, tr)
		}
	})

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Projectile, tr *component.Transform) {
		clr := colornames.Orange
		if p.Payload.SlowMultiplier > 0 {
			clr = colornames.Saddlebrown
		} else if p.Payload.PoisonPerTick > 0 {
			clr = colornames.Limegreen
		}
		vector.DrawFilledCircle(screen, float32(tr.X), float32(tr.Y), float32(p.Radius), clr, true)
	})

	ebitenutil.DebugPrint(screen, g.hud())
	if ui := g.activeOverlay(); ui != nil {
		ui.Draw(screen)
	}
}

func actorColor(w *ecs.World, e ecs.Entity) color.Color {
	if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok && wf.On {
		return colornames.White
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
		return colornames.Dimgray
	}
	if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		return colornames.Royalblue
	}
	if state, ok := ecs.Get(w, e, component.CombatStateComponent.Kind()); ok {
		switch state.Current {
		case component.StateAttack:
			return colornames.Orangered
		case component.StateChase:
			return colornames.Crimson
		case component.StateRevive:
			return colornames.Mediumpurple
		}
	}
	return colornames.Indianred
}

func (g *Game) drawDebug(screen *ebiten.Image, e ecs.Entity, tr *component.Transform) {
	w := g.sess.Sim.World
	x, y := float32(tr.X), float32(tr.Y)
	if species, ok := ecs.Get(w, e, component.SpeciesComponent.Kind()); ok {
		vector.StrokeCircle(screen, x, y, float32(species.DetectionRange), 1, colornames.Dimgray, false)
		vector.StrokeCircle(screen, x, y, float32(species.AttackRange), 1, colornames.Firebrick, false)
	}
	if pf, ok := ecs.Get(w, e, component.PathfindingComponent.Kind()); ok {
		px, py := x, y
		for i := pf.Index; i < len(pf.Waypoints); i++ {
			wp := pf.Waypoints[i]
			vector.StrokeLine(screen, px, py, float32(wp.X), float32(wp.Y), 1, colornames.Steelblue, false)
			px, py = float32(wp.X), float32(wp.Y)
		}
	}
	if state, ok := ecs.Get(w, e, component.CombatStateComponent.Kind()); ok {
		ebitenutil.DebugPrintAt(screen, string(state.Current), int(tr.X)-12, int(tr.Y)+14)
	}
}

func (g *Game) hud() string {
	w := g.sess.Sim.World
	var b strings.Builder
	fmt.Fprintf(&b, "TPS: %.0f  FPS: %.0f\n", ebiten.ActualTPS(), ebiten.ActualFPS())

	if h, ok := ecs.Get(w, g.sess.Player, component.HealthComponent.Kind()); ok {
		fmt.Fprintf(&b, "HP %d/%d", h.Current, h.Max)
	}
	if prog, ok := ecs.Get(w, g.sess.Player, component.ProgressionComponent.Kind()); ok {
		fmt.Fprintf(&b, "  Lv %d (%d/%d exp)  Score %d", prog.Level, prog.Experience, prog.NextLevelAt(), prog.Score)
	}
	if shield, ok := ecs.Get(w, g.sess.Player, component.ShieldComponent.Kind()); ok {
		fmt.Fprintf(&b, "  Shield %d/%d", shield.Charges, shield.MaxCharges)
	}
	d := g.sess.Sim.Director
	fmt.Fprintf(&b, "\nWave %d  Spawned %d  Creatures %d\n", d.Wave()+1, d.Spawned(), ecs.Count(w, component.CreatureTagComponent.Kind()))
	for _, line := range g.events {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.sess.Arena.Width), int(g.sess.Arena.Height)
}
