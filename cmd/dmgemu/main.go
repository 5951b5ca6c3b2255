package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/emu"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/ui"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/ui/term"
)

func main() {
	overlay := flag.Bool("overlay", false, "show FPS overlay")
	termMode := flag.Bool("term", false, "render to the terminal instead of a window")
	scale := flag.Int("scale", 3, "window scale")
	headless := flag.Bool("headless", false, "run without any frontend")
	frames := flag.Int("frames", 300, "frames to run in headless mode")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] ROM\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: false}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	romPath := flag.Arg(0)

	rom, err := os.ReadFile(romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	m, err := emu.New(rom, log)
	if err != nil {
		log.Fatalf("load cart: %v", err)
	}

	switch {
	case *headless:
		runHeadless(m, *frames, log)
	case *termMode:
		term.NewApp(m, *overlay).Run()
	default:
		app := ui.NewApp(ui.Config{Scale: *scale, Overlay: *overlay, ROMPath: romPath}, m, log)
		if err := app.Run(); err != nil {
			log.Fatal(err)
		}
	}
}

func runHeadless(m *emu.Machine, frames int, log *logrus.Logger) {
	if frames <= 0 {
		frames = 1
	}
	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)
	log.Infof("headless: frames=%d elapsed=%s fps=%.2f",
		frames, dur.Truncate(time.Millisecond), float64(frames)/dur.Seconds())
}
