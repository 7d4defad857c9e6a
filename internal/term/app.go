package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/torolife/server/internal/engine"
	"github.com/torolife/server/internal/platform/logger"
)

// frameInterval is the redraw cadence; the engine ticks independently.
const frameInterval = 50 * time.Millisecond

// App owns the terminal session: screen lifecycle, the render loop, and the
// dispatch of decoded input to the engine.
type App struct {
	screen   tcell.Screen
	renderer *Renderer
	eng      *engine.Engine
	logger   *logger.Logger
}

// NewApp initializes the terminal in raw mode with mouse capture.
func NewApp(eng *engine.Engine, log *logger.Logger) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.SetStyle(styleDefault)
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen),
		eng:      eng,
		logger:   log,
	}, nil
}

// Run drives the session until the user quits or the context is canceled.
// The terminal is always restored on exit.
func (a *App) Run(ctx context.Context) error {
	defer a.screen.Fini()

	// Input arrives on its own goroutine so drawing never blocks on it.
	inputs := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(inputs)
				return
			}
			inputs <- ev
		}
	}()

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()

	lay := a.renderer.Draw(a.eng.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-frames.C:
			lay = a.renderer.Draw(a.eng.Snapshot())
		case ev, ok := <-inputs:
			if !ok {
				return nil
			}
			switch typed := ev.(type) {
			case *tcell.EventKey:
				if quit := a.handleKey(typed); quit {
					return nil
				}
			case *tcell.EventMouse:
				a.handleMouse(typed, lay)
			case *tcell.EventResize:
				a.screen.Sync()
				lay = a.renderer.Draw(a.eng.Snapshot())
			}
		}
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch DecodeKey(ev) {
	case CmdQuit:
		return true
	case CmdPlayPause:
		a.eng.TogglePlayPause("EDITOR")
	case CmdStep:
		// Single-step is only meaningful while paused; the running session
		// already advances on its own ticks.
		if a.eng.Paused() {
			a.eng.StepOnce("EDITOR")
		}
	case CmdCyclePreset:
		a.eng.CyclePreset("EDITOR")
	case CmdClear:
		a.eng.ClearBoard("EDITOR")
	case CmdRandomize:
		a.eng.RandomizeBoard("EDITOR")
	}
	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse, lay Layout) {
	edit, ok := DecodeMouse(ev, lay)
	if !ok {
		return
	}
	if edit.Stamp {
		a.eng.StampPreset(edit.Pos, "EDITOR")
		return
	}
	a.eng.Toggle(edit.Pos, "EDITOR")
}
