// Package harness provides the test-signal generation, file I/O, and
// timing utilities used to exercise a limiter.Limiter from outside the
// core package. None of it is imported by the limiter package itself.
package harness

import "math/rand"

// NoiseKind selects the spectral shape a Generator produces.
type NoiseKind int

const (
	NoiseWhite NoiseKind = iota
	NoisePink
	NoiseBrown
)

// Generator produces the stereo test signals used by the concrete
// scenarios of spec.md §8: constant tones, step inputs, impulses with a
// secondary peak, and shaped noise for soak testing.
type Generator struct {
	SampleRate int
	rng        *rand.Rand

	// pink/brown noise carry filter state across calls so that successive
	// Process-sized blocks from the same Generator form one continuous
	// noise signal rather than restarting the filter each time.
	pb0, pb1, pb2, pb3, pb4, pb5, pb6 float64
	brownLast                         float64
}

// NewGenerator creates a Generator seeded from seed, so that test fixtures
// built from it are reproducible.
func NewGenerator(sampleRate int, seed int64) *Generator {
	return &Generator{SampleRate: sampleRate, rng: rand.New(rand.NewSource(seed))}
}

// Constant fills both channels with amplitude for n samples, the signal
// behind spec.md §8's unity-passthrough and hard-clip-on-step scenarios.
func (g *Generator) Constant(n int, amplitude float64) (xL, xR []float64) {
	xL = make([]float64, n)
	xR = make([]float64, n)
	for i := range xL {
		xL[i] = amplitude
		xR[i] = amplitude
	}
	return xL, xR
}

// Step produces n samples at lowAmplitude followed by n samples at
// highAmplitude, the input shape of spec.md §8's hard-clip-on-step
// scenario.
func (g *Generator) Step(n int, lowAmplitude, highAmplitude float64) (xL, xR []float64) {
	xL = make([]float64, 2*n)
	xR = make([]float64, 2*n)
	for i := 0; i < n; i++ {
		xL[i], xR[i] = lowAmplitude, lowAmplitude
	}
	for i := n; i < 2*n; i++ {
		xL[i], xR[i] = highAmplitude, highAmplitude
	}
	return xL, xR
}

// ImpulseWithSecondary places a primary impulse at sample 0 and a smaller
// secondary impulse secondaryDelay samples later, the input shape of
// spec.md §8's secondary-peak-recovery scenario.
func (g *Generator) ImpulseWithSecondary(n int, primary, secondary float64, secondaryDelay int) (xL, xR []float64) {
	xL = make([]float64, n)
	xR = make([]float64, n)
	xL[0], xR[0] = primary, primary
	if secondaryDelay < n {
		xL[secondaryDelay], xR[secondaryDelay] = secondary, secondary
	}
	return xL, xR
}

// Noise fills a stereo buffer of length n with the requested noise kind,
// scaled to amount. Pink noise uses the Voss-McCartney-style filter bank;
// brown noise uses leaky integration of scaled white noise.
func (g *Generator) Noise(kind NoiseKind, n int, amount float64) (xL, xR []float64) {
	xL = g.noise1(kind, n, amount)
	xR = g.noise1(kind, n, amount)
	return xL, xR
}

func (g *Generator) noise1(kind NoiseKind, n int, amount float64) []float64 {
	out := make([]float64, n)
	switch kind {
	case NoiseWhite:
		for i := range out {
			out[i] = (g.rng.Float64()*2 - 1) * amount
		}
	case NoisePink:
		for i := range out {
			white := g.rng.Float64()*2 - 1
			g.pb0 = 0.99886*g.pb0 + white*0.0555179
			g.pb1 = 0.99332*g.pb1 + white*0.0750759
			g.pb2 = 0.96900*g.pb2 + white*0.1538520
			g.pb3 = 0.86650*g.pb3 + white*0.3104856
			g.pb4 = 0.55000*g.pb4 + white*0.5329522
			g.pb5 = -0.7616*g.pb5 - white*0.0168980
			value := (g.pb0 + g.pb1 + g.pb2 + g.pb3 + g.pb4 + g.pb5 + g.pb6 + white*0.5362) * amount / 3.5
			g.pb6 = white * 0.115926
			if value > amount {
				value = amount
			} else if value < -amount {
				value = -amount
			}
			out[i] = value
		}
	case NoiseBrown:
		for i := range out {
			white := (g.rng.Float64()*2 - 1) * amount / 10
			value := (g.brownLast + 0.02*white) / 1.02
			g.brownLast = value
			value *= 3.5
			if value > amount {
				value = amount
			} else if value < -amount {
				value = -amount
			}
			out[i] = value
		}
	}
	return out
}

// Burst generates count noise bursts of burstDuration seconds separated by
// gap seconds, mixed into one buffer of the given total duration — the
// multi-impulse shape used for soak-testing a limiter against clap/snare-
// like program material.
func (g *Generator) Burst(totalDuration, burstDuration, gap float64, count int, amount float64) (xL, xR []float64) {
	n := int(totalDuration * float64(g.SampleRate))
	out := make([]float64, n)
	burstSamples := int(burstDuration * float64(g.SampleRate))
	for b := 0; b < count; b++ {
		start := int(float64(b) * gap * float64(g.SampleRate))
		burst := g.noise1(NoiseWhite, burstSamples, amount)
		for i := 0; i < burstSamples && start+i < n; i++ {
			out[start+i] += burst[i]
		}
	}
	return append([]float64(nil), out...), append([]float64(nil), out...)
}
