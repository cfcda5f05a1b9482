// Package router turns raw input events into synthesis commands and
// wire messages. It owns the control-side note state: which input
// identities are held, the global octave offset and the sustain mode.
package router

import (
	"github.com/cwbudde/algo-strum/lattice"
	"github.com/cwbudde/algo-strum/strum"
)

// Commander is the synthesis control boundary consumed by the router.
// Implemented by *strum.Engine.
type Commander interface {
	Play(noteID string, hz float64, volume float64)
	Stop(noteID string)
	SetSustain(cmd strum.SustainCommand)
}

// Sender relays accepted input to the session transport. A nil Sender
// disables network relay; local synthesis is unaffected.
type Sender interface {
	SendPlay(keyID string, hz float64, volume float64) error
	SendStop(keyID string) error
	SendSustain(keyID string, hz float64, volume float64) error
}

// Router is owned by the control loop and is not goroutine safe.
type Router struct {
	lattice      lattice.Lattice
	engine       Commander
	sender       Sender
	down         map[string]bool
	octaveOffset int
	sustainMode  bool
	velocity     float64
}

// New creates a router over the given tuning. sender may be nil.
func New(lat lattice.Lattice, engine Commander, sender Sender) *Router {
	return &Router{
		lattice:  lat,
		engine:   engine,
		sender:   sender,
		down:     make(map[string]bool),
		velocity: 0.8,
	}
}

// KeyDown handles a press of the input identity id mapped to cell.
// A repeated down for a held identity is ignored until its up.
func (r *Router) KeyDown(id string, cell lattice.Cell) {
	if r.down[id] {
		return
	}
	r.down[id] = true

	hz := r.lattice.Frequency(cell, r.octaveOffset)
	r.engine.Play(id, hz, r.velocity)
	if r.sender == nil {
		return
	}
	// Undelivered events are dropped, never queued or retried.
	if r.sustainMode {
		_ = r.sender.SendSustain(id, hz, r.velocity)
	} else {
		_ = r.sender.SendPlay(id, hz, r.velocity)
	}
}

// KeyUp handles a release of the input identity id.
func (r *Router) KeyUp(id string) {
	if !r.down[id] {
		return
	}
	delete(r.down, id)
	r.engine.Stop(id)
	if r.sender != nil {
		_ = r.sender.SendStop(id)
	}
}

// Sustain applies a tri-state sustain command to the engine and the
// router's own send mode.
func (r *Router) Sustain(cmd strum.SustainCommand) {
	switch cmd {
	case strum.SustainOn:
		r.sustainMode = true
	case strum.SustainOff:
		r.sustainMode = false
	case strum.SustainToggle:
		r.sustainMode = !r.sustainMode
	}
	r.engine.SetSustain(cmd)
}

// SustainMode reports whether presses are currently sent as sustain
// intents.
func (r *Router) SustainMode() bool {
	return r.sustainMode
}

// OctaveUp shifts notes computed after the call up one octave.
func (r *Router) OctaveUp() {
	r.octaveOffset++
}

// OctaveDown shifts notes computed after the call down one octave.
func (r *Router) OctaveDown() {
	r.octaveOffset--
}

// Octave reports the current global octave offset.
func (r *Router) Octave() int {
	return r.octaveOffset
}

// SetVelocity sets the volume used for subsequent presses, clamped to
// [0, 1].
func (r *Router) SetVelocity(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	r.velocity = v
}
