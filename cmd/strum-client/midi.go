package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // registers the default driver
)

// listenMIDI forwards note on/off from the given input port into the
// program as midiNoteMsg values. The returned func closes the port.
func listenMIDI(port int, program *tea.Program) (func(), error) {
	in, err := midi.InPort(port)
	if err != nil {
		return nil, errors.Wrapf(err, "opening midi port %d", port)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			program.Send(midiNoteMsg{on: true, key: int(key), vel: float64(vel) / 127})
		case msg.GetNoteEnd(&ch, &key):
			program.Send(midiNoteMsg{on: false, key: int(key)})
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "listening to midi input")
	}
	return stop, nil
}
