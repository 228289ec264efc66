package render

// Config carries the pipeline knobs the bootstrap consumes when sizing
// per-frame resources.
type Config struct {
	// FramesInFlight is the arena size N: how many frames the CPU may run
	// ahead of the GPU. Typically 2 or 3.
	FramesInFlight int

	// ClearColor is the render-pass clear, RGBA in [0, 1].
	ClearColor [4]float32
}

func DefaultConfig() Config {
	return Config{
		FramesInFlight: 2,
		ClearColor:     [4]float32{0.01, 0.01, 0.02, 1},
	}
}

// Normalized returns the config with out-of-range fields replaced by
// defaults.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.FramesInFlight < 1 {
		c.FramesInFlight = def.FramesInFlight
	}
	return c
}
