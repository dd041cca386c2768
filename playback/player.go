// Package playback streams a limiter's processed stereo output to a live
// audio device. It is never imported by the limiter core package — device
// I/O is explicitly a caller concern (spec.md §6).
package playback

import "errors"

var errNoBackend = errors.New("playback: no audio backend available (oto failed and ffplay not found)")

// Player streams interleaved stereo float64 samples, in [-1, 1], to an
// audio output device at the given sample rate, blocking until playback
// finishes.
type Player interface {
	Play(left, right []float64, sampleRate int) error
	Close() error
}

func interleave(left, right []float64) []float64 {
	out := make([]float64, 2*len(left))
	for i := range left {
		out[2*i] = left[i]
		out[2*i+1] = right[i]
	}
	return out
}
