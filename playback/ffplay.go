package playback

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/xyproto/files"

	"github.com/xyproto/limiter/harness"
)

// FFPlayPlayer plays back a stereo buffer by writing it to a temporary WAV
// file and shelling out to ffplay, the fallback the teacher's play.go/
// ffplay.go uses when no native audio backend is available.
type FFPlayPlayer struct {
	Initialized bool
}

// NewFFPlayPlayer reports whether ffplay is on PATH, mirroring the
// teacher's NewPlayer/files.PathHas("ffplay") check.
func NewFFPlayPlayer() *FFPlayPlayer {
	return &FFPlayPlayer{Initialized: files.PathHas("ffplay")}
}

// Play writes left/right to a temporary WAV file and blocks until ffplay
// exits.
func (p *FFPlayPlayer) Play(left, right []float64, sampleRate int) error {
	if !p.Initialized {
		return fmt.Errorf("playback: ffplay not found in PATH")
	}

	tmp, err := os.CreateTemp("", "limiter_*.wav")
	if err != nil {
		return fmt.Errorf("playback: error creating temporary wav file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := harness.SaveStereoWav(tmp, left, right, sampleRate); err != nil {
		return fmt.Errorf("playback: error saving wav file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("playback: error closing temporary wav file: %w", err)
	}

	cmd := exec.Command("ffplay", "-nodisp", "-autoexit", tmp.Name())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("playback: error starting ffplay: %w", err)
	}
	return cmd.Wait()
}

// Close is a no-op; FFPlayPlayer holds no persistent device handle.
func (p *FFPlayPlayer) Close() error { return nil }
