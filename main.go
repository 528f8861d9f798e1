package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/skirmish/prefabs"
)

func main() {
	arena := flag.String("arena", "arena.yaml", "arena prefab in prefabs/ (embedded copy used when missing on disk)")
	seed := flag.Int64("seed", 1, "simulation RNG seed")
	debug := flag.Bool("debug", false, "draw attack ranges and path waypoints")
	watch := flag.Bool("watch", true, "reload species and scripts when files under prefabs/ change")
	scale := flag.Int("scale", 2, "window scale")
	flag.Parse()

	var watcher *prefabs.Watcher
	if *watch {
		w, err := prefabs.NewWatcher(watchDirs()...)
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	game, err := NewGame(gameOptions{arena: *arena, seed: *seed, debug: *debug}, watcher)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetTPS(tps)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w*(*scale), h*(*scale))
	ebiten.SetWindowTitle("skirmish")

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}

// watchDirs returns the on-disk prefab directories that exist.
func watchDirs() []string {
	var dirs []string
	for _, dir := range []string{"prefabs", filepath.Join("prefabs", "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
