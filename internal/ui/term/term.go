// Package term is the terminal frontend. It renders the framebuffer as
// glyphs, two cells per pixel, and feeds key events into the joypad mask.
// Since the terminal only reports key-down events, held buttons are
// released on a short timer.
package term

import (
	"fmt"
	"time"

	tl "github.com/JoelOtter/termloop"

	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/emu"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/joypad"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/ppu"
)

// glyphs maps palette indices to shading runes, darkest last.
var glyphs = [4]rune{'█', '▒', '▓', ' '}

const keyHold = 100 * time.Millisecond

type App struct {
	m       *emu.Machine
	overlay bool
}

func NewApp(m *emu.Machine, overlay bool) *App {
	return &App{m: m, overlay: overlay}
}

// Run blocks in the termloop game loop.
func (a *App) Run() {
	g := tl.NewGame()
	screen := &screenEntity{app: a, held: make(map[int]time.Time), last: time.Now()}
	g.Screen().AddEntity(screen)
	g.Start()
}

// screenEntity steps the machine once per draw and paints the frame.
type screenEntity struct {
	app  *App
	held map[int]time.Time

	frames int
	fps    int
	last   time.Time
}

func (e *screenEntity) Draw(s *tl.Screen) {
	pad := e.app.m.Joypad()
	now := time.Now()
	for button, since := range e.held {
		if now.Sub(since) > keyHold {
			pad.Release(button)
			delete(e.held, button)
		}
	}

	e.app.m.StepFrame()

	fb := e.app.m.Framebuffer()
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			cell := tl.Cell{Ch: glyphs[fb[y][x]&3], Fg: tl.ColorWhite}
			s.RenderCell(x*2, y, &cell)
			s.RenderCell(x*2+1, y, &cell)
		}
	}

	e.frames++
	if now.Sub(e.last) >= time.Second {
		e.fps = e.frames
		e.frames = 0
		e.last = now
	}
	if e.app.overlay {
		for i, ch := range fmt.Sprintf("FPS: %d", e.fps) {
			s.RenderCell(i, 0, &tl.Cell{Ch: ch, Fg: tl.ColorRed, Bg: tl.ColorWhite})
		}
	}
}

func (e *screenEntity) Tick(ev tl.Event) {
	if ev.Type != tl.EventKey {
		return
	}

	button := -1
	switch ev.Key {
	case tl.KeyArrowRight:
		button = joypad.Right
	case tl.KeyArrowLeft:
		button = joypad.Left
	case tl.KeyArrowUp:
		button = joypad.Up
	case tl.KeyArrowDown:
		button = joypad.Down
	case tl.KeyEnter:
		button = joypad.Start
	case tl.KeyBackspace, tl.KeyBackspace2:
		button = joypad.Select
	default:
		switch ev.Ch {
		case 'a', 'A':
			button = joypad.A
		case 's', 'S':
			button = joypad.B
		}
	}
	if button < 0 {
		return
	}

	e.app.m.Joypad().Press(button)
	e.held[button] = time.Now()
}
