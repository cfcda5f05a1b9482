package strum

// Params holds the shared synthesis parameters. The control context
// mutates them only through commands; the render context reads them
// between samples.
type Params struct {
	Damp         float32 // feedback lowpass coefficient [0.5, 1]
	Damp2        float32 // brightness multiplier [0.5, 1]
	NoiseDamp    float32 // excitation level/damping trade-off [0.1, 1]
	Attack       float32 // fraction of the period still emitting noise [0.05, 1]
	ReleaseRate  float32 // per-sample release decay step [0.00001, 0.01]
	MasterVolume float32 // output scale [0, 1]
	Sustain      bool    // global gate holding release decay
}

// NewDefaultParams returns the stock plucked-string sound.
func NewDefaultParams() Params {
	return Params{
		Damp:         0.9,
		Damp2:        0.99,
		NoiseDamp:    0.2,
		Attack:       0.8,
		ReleaseRate:  0.0002,
		MasterVolume: 0.6,
	}
}

// Update is a partial parameter change; nil fields leave the current
// value untouched.
type Update struct {
	Damp        *float32
	Damp2       *float32
	NoiseDamp   *float32
	Attack      *float32
	ReleaseRate *float32
}

// Apply merges an update into the params, clamping every field into
// its valid range.
func (p *Params) Apply(u Update) {
	if u.Damp != nil {
		p.Damp = clampf(*u.Damp, 0.5, 1)
	}
	if u.Damp2 != nil {
		p.Damp2 = clampf(*u.Damp2, 0.5, 1)
	}
	if u.NoiseDamp != nil {
		p.NoiseDamp = clampf(*u.NoiseDamp, 0.1, 1)
	}
	if u.Attack != nil {
		p.Attack = clampf(*u.Attack, 0.05, 1)
	}
	if u.ReleaseRate != nil {
		p.ReleaseRate = clampf(*u.ReleaseRate, 0.00001, 0.01)
	}
}

// Clamp forces every field into its valid range. Used when params
// arrive wholesale, e.g. from a preset file.
func (p *Params) Clamp() {
	p.Damp = clampf(p.Damp, 0.5, 1)
	p.Damp2 = clampf(p.Damp2, 0.5, 1)
	p.NoiseDamp = clampf(p.NoiseDamp, 0.1, 1)
	p.Attack = clampf(p.Attack, 0.05, 1)
	p.ReleaseRate = clampf(p.ReleaseRate, 0.00001, 0.01)
	p.MasterVolume = clampf(p.MasterVolume, 0, 1)
}

func clampf(v float32, lo float32, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
