package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	debugui_ebiten "github.com/plus3/splash/ecs/debugui/ebiten"
	"github.com/plus3/splash/splash"
)

func main() {
	configPath := flag.String("config", "splash.yaml", "The splash config file.")
	assetsDir := flag.String("assets", "", "The directory fonts and images are loaded from. Defaults to the config's directory.")
	watch := flag.Bool("watch", false, "Reload the config and assets when they change on disk.")
	once := flag.String("once", "", "Only show the splash once, remembered under this application name.")
	debug := flag.Bool("debug", false, "Show the Dear ImGui debug panels.")
	width := flag.Int("width", 1280, "The window width.")
	height := flag.Int("height", 720, "The window height.")
	flag.Parse()

	cfg, err := splash.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[Preview] %v", err)
	}

	dir := *assetsDir
	if dir == "" {
		dir = filepath.Dir(*configPath)
	}

	opts := options{
		configPath: *configPath,
		assets:     os.DirFS(dir),
		width:      float64(*width),
		height:     float64(*height),
		debug:      *debug,
	}

	appName := *once
	if appName == "" {
		appName = cfg.ShowOnce
	}
	if appName != "" {
		store, err := splash.OpenSeenStore(appName, "splash")
		if err != nil {
			log.Printf("[Preview] Warning: showing the splash every run: %v", err)
		} else {
			opts.seen = store
			log.Printf("[Preview] Splash shown %d times before", store.Count())
		}
	}

	p, err := newPreview(cfg, opts)
	if err != nil {
		log.Fatalf("[Preview] %v", err)
	}

	if *watch {
		dirs := []string{filepath.Dir(*configPath)}
		if mustAbs(dir) != mustAbs(dirs[0]) {
			dirs = append(dirs, dir)
		}
		watcher, err := NewWatcher(dirs...)
		if err != nil {
			log.Fatalf("[Preview] Failed to watch %v: %v", dirs, err)
		}
		defer watcher.Close()
		p.watcher = watcher
		log.Printf("[Preview] Watching %v for changes", dirs)
	}

	if *debug {
		backend := debugui_ebiten.NewImguiBackend("Splash Preview", *width, *height)
		p.setOverlay(debugui_ebiten.Overlay{Backend: backend})
	} else {
		ebiten.SetWindowSize(*width, *height)
		ebiten.SetWindowTitle("Splash Preview")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(p); err != nil {
		log.Fatalf("[Preview] %v", err)
	}
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
