// Package ui is the graphical frontend: it consumes the palette-indexed
// framebuffer, feeds the shared joypad mask from the keyboard, and runs
// the machine one frame per tick.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/emu"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/joypad"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/ppu"
)

// shades is the classic DMG green ramp, RGBA, indexed by palette value.
var shades = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

type keyBinding struct {
	key    ebiten.Key
	button int
}

// Arrows plus Enter/Backspace/A/S, with the Z/X aliases.
var bindings = []keyBinding{
	{ebiten.KeyRight, joypad.Right},
	{ebiten.KeyLeft, joypad.Left},
	{ebiten.KeyUp, joypad.Up},
	{ebiten.KeyDown, joypad.Down},
	{ebiten.KeyA, joypad.A},
	{ebiten.KeyZ, joypad.A},
	{ebiten.KeyS, joypad.B},
	{ebiten.KeyX, joypad.B},
	{ebiten.KeyBackspace, joypad.Select},
	{ebiten.KeyEnter, joypad.Start},
}

type App struct {
	cfg Config
	m   *emu.Machine
	tex *ebiten.Image
	pix []byte
	log *logrus.Logger

	// FPS counter
	frames int
	fps    int
	last   time.Time
}

func NewApp(cfg Config, m *emu.Machine, log *logrus.Logger) *App {
	cfg.Defaults()
	if log == nil {
		log = logrus.New()
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	return &App{cfg: cfg, m: m, pix: make([]byte, ppu.Width*ppu.Height*4), log: log, last: time.Now()}
}

// Run blocks in the ebiten game loop until the window closes.
func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	var mask byte = 0xFF
	for _, b := range bindings {
		if ebiten.IsKeyPressed(b.key) {
			mask &^= 1 << b.button
		}
	}
	a.m.Joypad().Set(mask)

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.saveState()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.loadState()
	}

	a.m.StepFrame()
	a.countFrame()
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	fb := a.m.Framebuffer()
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			s := shades[fb[y][x]&3]
			i := (y*ppu.Width + x) * 4
			copy(a.pix[i:i+4], s[:])
		}
	}
	a.tex.WritePixels(a.pix)
	screen.DrawImage(a.tex, nil)

	if a.cfg.Overlay {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %d", a.fps))
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

func (a *App) countFrame() {
	a.frames++
	if now := time.Now(); now.Sub(a.last) >= time.Second {
		a.fps = a.frames
		a.frames = 0
		a.last = now
	}
}

func (a *App) statePath() string {
	if a.cfg.ROMPath == "" {
		return ""
	}
	return a.cfg.ROMPath + ".state"
}

func (a *App) saveState() {
	path := a.statePath()
	if path == "" {
		return
	}
	if err := os.WriteFile(path, a.m.SaveState(), 0644); err != nil {
		a.log.Errorf("save state: %v", err)
		return
	}
	a.log.Infof("wrote %s", path)
}

func (a *App) loadState() {
	path := a.statePath()
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		a.log.Errorf("load state: %v", err)
		return
	}
	a.m.LoadState(data)
	a.log.Infof("loaded %s", path)
}
