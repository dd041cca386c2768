//go:build sdl2

package playback

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// Sdl2Player is the alternate playback backend selected by the sdl2 build
// tag, grounded on the teacher's play_sdl2.go/sdl2.go (SDL_audio device,
// queued 32-bit float samples).
type Sdl2Player struct {
	deviceID sdl.AudioDeviceID
}

// NewSdl2Player initializes SDL's audio subsystem and opens a stereo
// float32 output device at sampleRate.
func NewSdl2Player(sampleRate int) (*Sdl2Player, error) {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("playback: could not initialize SDL: %w", err)
	}

	var desired, obtained sdl.AudioSpec
	desired.Freq = int32(sampleRate)
	desired.Format = sdl.AUDIO_F32SYS
	desired.Channels = 2
	desired.Samples = 4096

	deviceID, err := sdl.OpenAudioDevice("", false, &desired, &obtained, 0)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("playback: could not open audio device: %w", err)
	}

	return &Sdl2Player{deviceID: deviceID}, nil
}

// Play interleaves left/right into 32-bit float PCM, queues it on the
// device, and blocks until the device drains the queue.
func (p *Sdl2Player) Play(left, right []float64, sampleRate int) error {
	samples := interleave(left, right)

	buf := new(bytes.Buffer)
	for _, s := range samples {
		if err := binary.Write(buf, binary.LittleEndian, float32(clampUnit(s))); err != nil {
			return fmt.Errorf("playback: error converting float64 to float32: %w", err)
		}
	}

	if err := sdl.QueueAudio(p.deviceID, buf.Bytes()); err != nil {
		return fmt.Errorf("playback: could not queue audio: %w", err)
	}

	sdl.PauseAudioDevice(p.deviceID, false)
	for sdl.GetQueuedAudioSize(p.deviceID) > 0 {
		sdl.Delay(100)
	}
	return nil
}

// Close shuts down the audio device and the SDL subsystem.
func (p *Sdl2Player) Close() error {
	sdl.CloseAudioDevice(p.deviceID)
	sdl.Quit()
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
