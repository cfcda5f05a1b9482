package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-strum/audioout"
	"github.com/cwbudde/algo-strum/internal/wsnet"
	"github.com/cwbudde/algo-strum/lattice"
	"github.com/cwbudde/algo-strum/preset"
	"github.com/cwbudde/algo-strum/router"
	"github.com/cwbudde/algo-strum/strum"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "jam server websocket URL")
	presetPath := flag.String("preset", "", "preset JSON file path (optional)")
	sampleRate := flag.Int("sample-rate", 44100, "audio sample rate in Hz")
	midiPort := flag.Int("midi", -1, "MIDI input port number (-1 disables MIDI)")
	logPath := flag.String("log", "", "append logs to this file (optional)")
	offline := flag.Bool("offline", false, "play locally without connecting to a server")
	flag.Parse()

	logWriter := io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logWriter = f
	}
	logger := log.New(logWriter, "strum-client: ", log.LstdFlags)

	engine := strum.NewEngine(*sampleRate)
	if *presetPath != "" {
		params, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		engine.SetParams(strum.Update{
			Damp:        &params.Damp,
			Damp2:       &params.Damp2,
			NoiseDamp:   &params.NoiseDamp,
			Attack:      &params.Attack,
			ReleaseRate: &params.ReleaseRate,
		})
		engine.SetMasterVolume(float64(params.MasterVolume))
	}

	// A dead audio device kills local sound only; input handling and
	// network relay keep working.
	var audioErr error
	player, audioErr := audioout.NewPlayer(*sampleRate)
	if audioErr == nil {
		player.Start(engine)
		defer player.Close()
	} else {
		logger.Printf("audio unavailable: %v", audioErr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newModel(engine, audioErr)
	program := tea.NewProgram(m, tea.WithAltScreen())

	var sender router.Sender
	if !*offline {
		client := wsnet.NewClient(*url, func(f wsnet.Frame) {
			program.Send(serverFrameMsg{frame: f})
		}, logger)
		go client.Run(ctx)
		sender = client
	}
	m.router = router.New(lattice.New(), engine, sender)

	if *midiPort >= 0 {
		stop, err := listenMIDI(*midiPort, program)
		if err != nil {
			logger.Printf("midi unavailable: %v", err)
			m.midiErr = err
		} else {
			defer stop()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
