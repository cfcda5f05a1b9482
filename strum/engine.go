package strum

// Engine is the polyphonic Karplus-Strong synthesizer. Control methods
// (Play, Stop, SetSustain, SetMasterVolume, SetParams) may be called
// from any goroutine; they enqueue commands on a bounded queue and
// never block. RenderBlock drains the queue and renders; it is the
// render context's sole entry point and performs no allocation, no
// locking and no unbounded work.
type Engine struct {
	sampleRate int
	params     Params
	pool       *Pool
	voices     [MaxVoices]Voice
	commands   chan command
	noise      noiseSource
}

// commandQueueSize bounds the control→render hand-off. Overflow drops
// the command rather than blocking the control context.
const commandQueueSize = 256

// NewEngine creates an engine rendering at the given sample rate.
func NewEngine(sampleRate int) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		params:     NewDefaultParams(),
		pool:       NewPool(),
		commands:   make(chan command, commandQueueSize),
		noise:      noiseSource{state: 0x9e3779b97f4a7c15},
	}
	return e
}

// SampleRate reports the render rate in Hz.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// Play starts or retriggers the note identified by noteID.
func (e *Engine) Play(noteID string, hz float64, volume float64) {
	e.submit(command{kind: cmdPlay, noteID: noteID, hz: float32(hz), volume: float32(volume)})
}

// Stop releases the note identified by noteID.
func (e *Engine) Stop(noteID string) {
	e.submit(command{kind: cmdStop, noteID: noteID})
}

// SetSustain applies a tri-state sustain command.
func (e *Engine) SetSustain(cmd SustainCommand) {
	e.submit(command{kind: cmdSustain, sustain: cmd})
}

// SetMasterVolume sets the output scale in [0, 1].
func (e *Engine) SetMasterVolume(v float64) {
	e.submit(command{kind: cmdVolume, volume: float32(v)})
}

// SetParams merges a partial parameter update.
func (e *Engine) SetParams(u Update) {
	e.submit(command{kind: cmdParams, update: u})
}

func (e *Engine) submit(cmd command) {
	select {
	case e.commands <- cmd:
	default:
	}
}

// RenderBlock fills dst with the next block of mono samples. Must be
// called from a single goroutine (the audio callback).
func (e *Engine) RenderBlock(dst []float32) {
	e.drainCommands()

	for i := range dst {
		dst[i] = 0
	}
	for vi := range e.voices {
		v := &e.voices[vi]
		if !v.inUse {
			continue
		}
		buf := e.pool.Buffer(v.slot)
		for i := range dst {
			dst[i] += v.renderSample(buf, &e.params, &e.noise)
		}
	}
	master := e.params.MasterVolume
	for i := range dst {
		dst[i] *= master
	}

	e.sweep()
}

func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.commands:
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Engine) apply(cmd command) {
	switch cmd.kind {
	case cmdPlay:
		e.play(cmd.noteID, cmd.hz, cmd.volume)
	case cmdStop:
		if v := e.findVoice(cmd.noteID); v != nil {
			v.state = voiceReleasing
		}
	case cmdSustain:
		switch cmd.sustain {
		case SustainOn:
			e.params.Sustain = true
		case SustainOff:
			e.params.Sustain = false
		case SustainToggle:
			e.params.Sustain = !e.params.Sustain
		}
	case cmdVolume:
		e.params.MasterVolume = clampf(cmd.volume, 0, 1)
	case cmdParams:
		e.params.Apply(cmd.update)
	}
}

// play admits a note. A period that does not fit the delay line or an
// exhausted pool drops the request silently: soft-capacity admission
// control, not an error.
func (e *Engine) play(noteID string, hz float32, volume float32) {
	if hz <= 0 {
		return
	}
	period := int(periodFor(hz, e.sampleRate))
	if period < 2 || period >= DelayLineLength {
		return
	}
	if v := e.findVoice(noteID); v != nil {
		v.trigger(noteID, hz, volume, e.sampleRate)
		return
	}
	slot, ok := e.pool.Acquire()
	if !ok {
		return
	}
	for vi := range e.voices {
		v := &e.voices[vi]
		if v.inUse {
			continue
		}
		v.inUse = true
		v.slot = slot
		v.previousSample = 0
		v.currentSample = 0
		v.trigger(noteID, hz, volume, e.sampleRate)
		return
	}
	// Voice arena and pool have equal capacity, so a free slot always
	// has a matching free voice.
	e.pool.Release(slot)
}

// sweep returns finished voices to the pool. A voice is finished once
// its release envelope reaches exactly zero.
func (e *Engine) sweep() {
	for vi := range e.voices {
		v := &e.voices[vi]
		if v.inUse && v.releaseGain == 0 {
			e.pool.Release(v.slot)
			v.inUse = false
			v.noteID = ""
		}
	}
}

func (e *Engine) findVoice(noteID string) *Voice {
	for vi := range e.voices {
		v := &e.voices[vi]
		if v.inUse && v.noteID == noteID {
			return v
		}
	}
	return nil
}

// ActiveVoices counts the currently sounding voices. Render-context
// state; callers outside the render goroutine get a best-effort value.
func (e *Engine) ActiveVoices() int {
	n := 0
	for vi := range e.voices {
		if e.voices[vi].inUse {
			n++
		}
	}
	return n
}

// VoiceInfo is a read-only view of one voice for status displays and
// tests.
type VoiceInfo struct {
	Phase       float32
	ReleaseGain float32
	Releasing   bool
}

// VoiceState reports the state of the voice bound to noteID.
func (e *Engine) VoiceState(noteID string) (VoiceInfo, bool) {
	v := e.findVoice(noteID)
	if v == nil {
		return VoiceInfo{}, false
	}
	return VoiceInfo{
		Phase:       v.phase,
		ReleaseGain: v.releaseGain,
		Releasing:   v.state == voiceReleasing,
	}, true
}
