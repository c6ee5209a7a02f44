package membw

// Harness owns the state of one measurement run: configuration, clock and the
// three buffers. It exists for the duration of the run and is torn down
// exactly once, after validation and reporting.
type Harness[E Float] struct {
	Config Config
	Clock  Clock
	Bufs   *Buffers
}

// NewHarness provisions buffers per cfg and returns a harness ready to run.
// A nil clk selects the wall clock.
func NewHarness[E Float](cfg Config, clk Clock) (*Harness[E], error) {
	if cfg.Repetitions < 2 {
		return nil, NewInvalidArgError("NewHarness", "repetitions must be at least 2")
	}
	if clk == nil {
		clk = WallClock{}
	}

	var (
		bufs *Buffers
		err  error
	)
	if cfg.DevicePath != "" {
		bufs, err = ProvisionDevice(cfg.DevicePath, cfg.BytesPerBuffer, cfg.DeviceOffset)
	} else {
		bufs, err = Provision(cfg.BytesPerBuffer)
	}
	if err != nil {
		return nil, err
	}
	cfg.BytesPerBuffer = bufs.Bytes

	return &Harness[E]{Config: cfg, Clock: clk, Bufs: bufs}, nil
}

// Elements returns the element count of each buffer.
func (h *Harness[E]) Elements() int {
	return len(View[E](h.Bufs.A))
}

// Run executes the measurement loop and returns the timing table plus the
// warm-up pass duration in seconds.
func (h *Harness[E]) Run() (Times, float64) {
	return RunKernels[E](h.Bufs, h.Config, h.Clock)
}

// Summarize derives the per-kernel statistics for a completed run.
func (h *Harness[E]) Summarize(times Times) [NumKernels]KernelSummary {
	return Summarize(times, h.Bufs.Bytes)
}

// Validate compares the final buffer contents against the analytically
// expected values for the configured repetition count.
func (h *Harness[E]) Validate() Outcome {
	return Validate[E](h.Bufs, h.Config.Repetitions, h.Config.Verbose)
}

// Close releases the buffers.
func (h *Harness[E]) Close() error {
	return h.Bufs.Close()
}
