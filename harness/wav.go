package harness

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SaveStereoWav saves an interleaved stereo signal to w as 16-bit PCM,
// generalizing the teacher's mono SaveToWav to two channels.
func SaveStereoWav(w io.WriteSeeker, left, right []float64, sampleRate int) error {
	if len(left) == 0 || len(right) == 0 {
		return fmt.Errorf("harness: cannot save empty waveform")
	}
	if len(left) != len(right) {
		return fmt.Errorf("harness: left/right length mismatch: %d vs %d", len(left), len(right))
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 2, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: 2},
		Data:   make([]int, len(left)*2),
	}
	for i := range left {
		buf.Data[2*i] = clampInt16(left[i])
		buf.Data[2*i+1] = clampInt16(right[i])
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("harness: error writing wav file: %v", err)
	}
	return enc.Close()
}

func clampInt16(sample float64) int {
	scaled := sample * float64(math.MaxInt16)
	return int(math.Max(math.Min(scaled, float64(math.MaxInt16)), float64(math.MinInt16)))
}

// LoadStereoWav loads a WAV file, returning interleaved-split left/right
// channels as float64 in [-1, 1] and its sample rate. A mono file is
// duplicated to both channels.
func LoadStereoWav(filename string) (left, right []float64, sampleRate int, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("harness: error opening wav file: %v", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("harness: error decoding wav file: %v", err)
	}

	data := buffer.Data
	sampleRate = buffer.Format.SampleRate
	channels := buffer.Format.NumChannels

	if channels == 1 {
		left = make([]float64, len(data))
		right = make([]float64, len(data))
		for i, v := range data {
			s := float64(v) / math.MaxInt16
			left[i] = s
			right[i] = s
		}
		return left, right, sampleRate, nil
	}

	n := len(data) / 2
	left = make([]float64, n)
	right = make([]float64, n)
	for i := 0; i < n; i++ {
		left[i] = float64(data[2*i]) / math.MaxInt16
		right[i] = float64(data[2*i+1]) / math.MaxInt16
	}
	return left, right, sampleRate, nil
}
