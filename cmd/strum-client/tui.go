package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-strum/internal/wsnet"
	"github.com/cwbudde/algo-strum/lattice"
	"github.com/cwbudde/algo-strum/router"
	"github.com/cwbudde/algo-strum/session"
	"github.com/cwbudde/algo-strum/strum"
)

// noteHold is how long a terminal key press keeps its note held; the
// terminal reports no key-up events, so releases are synthesized.
const noteHold = 250 * time.Millisecond

type serverFrameMsg struct {
	frame wsnet.Frame
}

type keyUpMsg struct {
	id string
}

type midiNoteMsg struct {
	on  bool
	key int
	vel float64
}

type model struct {
	engine *strum.Engine
	router *router.Router

	sessionID string
	peers     []string
	lastEvent string
	audioErr  error
	midiErr   error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func newModel(engine *strum.Engine, audioErr error) *model {
	return &model{engine: engine, audioErr: audioErr}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case keyUpMsg:
		m.router.KeyUp(msg.id)
	case midiNoteMsg:
		id := fmt.Sprintf("midi:%d", msg.key)
		if msg.on {
			m.router.SetVelocity(msg.vel)
			m.router.KeyDown(id, lattice.MIDICell(msg.key))
		} else {
			m.router.KeyUp(id)
		}
	case serverFrameMsg:
		m.handleFrame(msg.frame)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.router.Sustain(strum.SustainToggle)
		return m, nil
	case "up":
		m.router.OctaveUp()
		return m, nil
	case "down":
		m.router.OctaveDown()
		return m, nil
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return m, nil
	}
	cell, ok := lattice.QWERTYCell(msg.Runes[0])
	if !ok {
		return m, nil
	}
	id := "key:" + string(msg.Runes[0])
	m.router.KeyDown(id, cell)
	return m, tea.Tick(noteHold, func(time.Time) tea.Msg {
		return keyUpMsg{id: id}
	})
}

// handleFrame applies one server frame: membership bookkeeping for
// presence, remote synthesis for note broadcasts. The sender never
// hears its own echo; every note here is from a peer.
func (m *model) handleFrame(f wsnet.Frame) {
	switch f.Type {
	case session.TypeWelcome:
		m.sessionID = f.SessionID
		m.peers = f.ActiveSessions
		for _, env := range f.MessageHistory {
			m.lastEvent = fmt.Sprintf("%s %s", env.Type, env.Data.KeyID)
		}
	case session.TypeSessionJoined:
		m.peers = append(m.peers, f.SessionID)
		m.lastEvent = "joined " + f.SessionID
	case session.TypeSessionLeft:
		for i, id := range m.peers {
			if id == f.SessionID {
				m.peers = append(m.peers[:i], m.peers[i+1:]...)
				break
			}
		}
		m.lastEvent = "left " + f.SessionID
	case session.TypePlay, session.TypeSustain:
		m.engine.Play(remoteNoteID(f.SessionID, f.Data.KeyID), f.Data.Hz, f.Data.Volume)
		m.lastEvent = fmt.Sprintf("%s %.0f Hz from %s", f.Type, f.Data.Hz, f.SessionID)
	case session.TypeStop:
		m.engine.Stop(remoteNoteID(f.SessionID, f.Data.KeyID))
	}
}

// remoteNoteID namespaces peer notes so two peers holding the same key
// sound as two voices.
func remoteNoteID(sessionID string, keyID string) string {
	return "remote:" + sessionID + ":" + keyID
}

func (m *model) View() string {
	header := titleStyle.Render("algo-strum")
	status := fmt.Sprintf("session %s | peers %d | octave %+d | sustain %v | voices %d",
		orDash(m.sessionID), len(m.peers), m.router.Octave(), m.router.SustainMode(), m.engine.ActiveVoices())

	lines := header + "\n" + status + "\n"
	if m.audioErr != nil {
		lines += warnStyle.Render(fmt.Sprintf("AUDIO UNAVAILABLE: %v", m.audioErr)) + "\n"
	}
	if m.midiErr != nil {
		lines += warnStyle.Render(fmt.Sprintf("midi unavailable: %v", m.midiErr)) + "\n"
	}
	if m.lastEvent != "" {
		lines += dimStyle.Render("last: "+m.lastEvent) + "\n"
	}
	lines += dimStyle.Render("rows z/a/q/1 play notes · space sustain · arrows octave · esc quits")
	return lines
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
