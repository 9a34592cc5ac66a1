package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/splash"
	"github.com/plus3/splash/tween"
	"github.com/plus3/splash/ui"
)

type benchState int

const (
	benchSplash benchState = iota
	benchDone
)

func main() {
	screenCount := flag.Int("screens", 20, "The number of splash screens.")
	brandCount := flag.Int("brands", 50, "The number of brands on each screen.")
	runs := flag.Int("runs", 5, "How many times the splash is played from start to end.")
	step := flag.Float64("step", 1.0/60.0, "The simulated seconds per update.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting splash benchmark...")

	report := &Report{
		Screens:        *screenCount,
		Brands:         *brandCount,
		Runs:           *runs,
		Step:           time.Duration(*step * float64(time.Second)),
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)
	startTime := time.Now()

	for i := 0; i < *runs; i++ {
		app := newBenchApp(*screenCount, *brandCount)
		frames, peak := play(app, *step, report)
		report.TotalUpdates += frames
		report.PeakEntities = max(report.PeakEntities, peak)
		report.Scheduler = app.Scheduler().GetStats()
		log.Printf("Run %d finished after %d updates", i+1, frames)
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n\n--- Splash Benchmark Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

func newBenchApp(screenCount, brandCount int) *ecs.App {
	plugin := splash.New(benchSplash, benchDone)
	for i := 0; i < screenCount; i++ {
		screen := splash.Screen{
			Type:       splash.Grid,
			Background: ui.RGB(float32(i)/float32(screenCount), 0, 0),
		}
		for j := 0; j < brandCount; j++ {
			item := splash.Item{
				Tint:     ui.White,
				Width:    ui.Px(24),
				Height:   ui.Px(24),
				Ease:     tween.EaseFunction(j % int(tween.BounceInOut+1)),
				Duration: time.Second,
			}
			if j%2 == 0 {
				item.Asset = splash.TextAsset{Text: ui.NewText(fmt.Sprintf("%d-%d", i, j), ui.TextStyle{Size: 16})}
			}
			screen.Brands = append(screen.Brands, item)
		}
		plugin.AddScreen(screen)
	}

	app := ecs.NewApp()
	app.AddPlugins(ui.Plugin{Clear: ui.Black}, plugin)
	return app
}

// play updates app until the splash hands over, bounded by one simulated
// hour. It returns the update count and the peak entity count.
func play(app *ecs.App, step float64, report *Report) (int64, int) {
	const limit = 3600
	var frames int64
	peak := 0
	for elapsed := 0.0; elapsed < limit; elapsed += step {
		updateStart := time.Now()
		app.Update(step)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		frames++

		peak = max(peak, app.Storage().EntityCount())
		if state, ok := ecs.LookupSingleton[ecs.State[benchState]](app.Storage()); ok && state.Get() == benchDone {
			break
		}
	}
	return frames, peak
}
