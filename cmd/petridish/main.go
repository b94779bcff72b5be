// Command petridish is a minimal terminal reference driver for the dish
// engine: it renders the world, paces step_* calls against a target rate,
// and turns rule activity into a short audio blip. All matching, caching,
// and rule-application logic lives in the library packages; this file only
// renders and translates input.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/petridish/engine"
	"github.com/lixenwraith/petridish/metrics"
	"github.com/lixenwraith/petridish/persist"
)

const saveFile = "./dish.json"

func main() {
	rate := flag.Float64("rate", 30, "target rule applications per second")
	mode := flag.String("mode", "cached", "sampling strategy: cached or sampled")
	metricsAddr := flag.String("metrics", "", "if set, serve Prometheus metrics on this address (e.g. :2112)")
	flag.Parse()

	if *mode != "cached" && *mode != "sampled" {
		fmt.Fprintf(os.Stderr, "invalid -mode %q: must be cached or sampled\n", *mode)
		os.Exit(1)
	}

	app, err := newApp(*rate, *mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.cleanup()

	if *metricsAddr != "" {
		app.startMetricsServer(*metricsAddr)
	}

	app.run()
}

type app struct {
	screen tcell.Screen
	engine *engine.Engine
	sched  *engine.Scheduler
	mode   string

	audioReady bool
}

func newApp(rate float64, mode string) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	a := &app{
		screen: screen,
		engine: engine.NewDefault(),
		sched:  engine.NewScheduler(rate),
		mode:   mode,
	}
	a.engine.Metrics = metrics.New("petridish")

	if err := a.initAudio(); err != nil {
		// Non-fatal, the dish runs fine without sound.
		log.Printf("audio initialization failed: %v", err)
	}

	return a, nil
}

func (a *app) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	a.audioReady = true
	return nil
}

func (a *app) playBlip() {
	if !a.audioReady {
		return
	}
	sampleRate := beep.SampleRate(44100)
	duration := sampleRate.N(30 * time.Millisecond)
	tone, err := generators.SineTone(sampleRate, 660)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(duration, tone))
}

func (a *app) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.engine.Metrics.Handler())
	go func() {
		log.Printf("metrics server listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()
}

func (a *app) cleanup() {
	if a.audioReady {
		speaker.Close()
	}
	a.screen.Fini()
}

func (a *app) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-events:
			if !a.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			steps := a.sched.Tick(now)
			for i := 0; i < steps; i++ {
				if a.stepOnce() {
					a.playBlip()
				}
			}
			a.draw()
		}
	}
}

func (a *app) stepOnce() bool {
	if a.mode == "sampled" {
		return a.engine.StepSampled()
	}
	return a.engine.StepCached()
}

func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Rune() == 'q':
			return false
		case ev.Rune() == ' ':
			if a.sched.IsPaused() {
				a.sched.Resume()
			} else {
				a.sched.Pause()
			}
		case ev.Rune() == 'r':
			a.engine.Reseed(0.25)
		case ev.Rune() == 's':
			if err := persist.Save(saveFile, a.engine); err != nil {
				log.Printf("save failed: %v", err)
			}
		case ev.Rune() == 'l':
			if err := persist.Load(saveFile, a.engine); err != nil {
				log.Printf("load failed: %v", err)
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) draw() {
	a.screen.Clear()
	side := a.engine.World.Side()
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			reading := a.engine.GetCell(x, y)
			style := tcell.StyleDefault
			if reading.Present && int(reading.Cell) < len(a.engine.Types) {
				c := a.engine.Types[reading.Cell].Color
				style = style.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			}
			a.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	a.screen.Show()
}
