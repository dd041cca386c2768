//go:build sdl2

package playback

// NewPlayer picks the sdl2 backend, built only with -tags sdl2.
func NewPlayer(sampleRate int) (Player, error) {
	return NewSdl2Player(sampleRate)
}
