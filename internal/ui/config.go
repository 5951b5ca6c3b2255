package ui

// Config contains display settings for the graphical frontend.
type Config struct {
	Title   string
	Scale   int
	Overlay bool   // FPS overlay
	ROMPath string // used to place save-state files next to the ROM
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "dmgemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
