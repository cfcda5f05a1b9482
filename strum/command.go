package strum

// SustainCommand is the tri-state pedal input.
type SustainCommand int

const (
	SustainOff SustainCommand = iota
	SustainOn
	SustainToggle
)

type commandKind int

const (
	cmdPlay commandKind = iota
	cmdStop
	cmdSustain
	cmdVolume
	cmdParams
)

// command is the control-side union delivered to the render context
// through the engine's bounded queue.
type command struct {
	kind    commandKind
	noteID  string
	hz      float32
	volume  float32
	sustain SustainCommand
	update  Update
}
