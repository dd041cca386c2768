//go:build !sdl2

package playback

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer is the default playback backend, grounded on the teacher's
// play_oto.go: one process-wide Oto context, lazily created, reused across
// Player instances.
type OtoPlayer struct {
	Initialized bool
	ctx         *oto.Context
	mu          sync.Mutex
	current     *oto.Player
}

var (
	otoMut     sync.Mutex
	otoContext *oto.Context
)

// NewOtoPlayer initializes the shared Oto context (once per process) at
// sampleRate and returns a player bound to it.
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	otoMut.Lock()
	defer otoMut.Unlock()

	if otoContext == nil {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("playback: could not initialize oto: %w", err)
		}
		<-readyChan
		otoContext = ctx
	}

	return &OtoPlayer{Initialized: true, ctx: otoContext}, nil
}

// Play interleaves left/right, converts to 16-bit PCM, and blocks until
// the buffered audio has finished playing.
func (p *OtoPlayer) Play(left, right []float64, sampleRate int) error {
	if !p.Initialized {
		return errors.New("playback: oto player not initialized")
	}

	samples := interleave(left, right)
	buf := new(bytes.Buffer)
	for _, s := range samples {
		v := int16(clampUnit(s) * 32767)
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("playback: error converting float64 to int16: %w", err)
		}
	}

	p.mu.Lock()
	audioPlayer := p.ctx.NewPlayer(buf)
	p.current = audioPlayer
	p.mu.Unlock()

	audioPlayer.Play()
	duration := time.Duration(float64(len(left)) / float64(sampleRate) * float64(time.Second))
	time.Sleep(duration)
	return audioPlayer.Close()
}

// Close stops any in-flight playback. It does not tear down the shared Oto
// context, matching the teacher's play_oto.go Close semantics.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		return p.current.Close()
	}
	return nil
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
