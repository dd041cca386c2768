//go:build !sdl2

package playback

// NewPlayer picks the default backend: Oto if its context initializes
// successfully, otherwise the ffplay subprocess fallback.
func NewPlayer(sampleRate int) (Player, error) {
	if p, err := NewOtoPlayer(sampleRate); err == nil {
		return p, nil
	}
	p := NewFFPlayPlayer()
	if !p.Initialized {
		return nil, errNoBackend
	}
	return p, nil
}
