// Package audioout streams engine output to the system audio device
// through oto. The device pulls samples by calling Read on its own
// schedule; the engine pointer is held atomically so the hot path
// takes no lock.
package audioout

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-strum/strum"
)

// Player owns the audio device and drives Engine.RenderBlock from the
// device's read callback.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	engine atomic.Pointer[strum.Engine]
	block  []float32
	mu     sync.Mutex // setup and teardown only
}

// NewPlayer opens the audio device at the given sample rate. Failure
// here means no local sound; callers surface it to the user and keep
// input and network relay running.
func NewPlayer(sampleRate int) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, errors.Wrap(err, "opening audio device")
	}
	<-ready
	return &Player{
		ctx:   ctx,
		block: make([]float32, 4096),
	}, nil
}

// Start binds the engine and begins playback.
func (p *Player) Start(engine *strum.Engine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.Store(engine)
	if p.player == nil {
		p.player = p.ctx.NewPlayer(p)
	}
	p.player.Play()
}

// Read renders the next block of float32 LE samples for the device.
func (p *Player) Read(buf []byte) (int, error) {
	engine := p.engine.Load()
	if engine == nil {
		for i := range buf {
			buf[i] = 0
		}
		return len(buf), nil
	}

	frames := len(buf) / 4
	if len(p.block) < frames {
		p.block = make([]float32, frames)
	}
	block := p.block[:frames]
	engine.RenderBlock(block)
	for i, s := range block {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return frames * 4, nil
}

// Close stops playback and releases the device.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.Store(nil)
	if p.player != nil {
		return p.player.Close()
	}
	return nil
}
