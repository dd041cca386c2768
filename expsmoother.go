package limiter

import "math"

// ExpSmootherCascade is N cascaded one-pole exponential smoothers. Each
// stage independently picks its attack or release coefficient depending on
// whether its input currently exceeds its held state, which makes the
// cascade a non-linear envelope follower (spec.md §4.3) — intentionally so,
// since that non-linearity is what keeps THD low on asymmetric signals.
//
// A single one-pole with time constant τ reaches its step response's −3 dB
// point at approximately τ; cascading N identical one-poles shifts that
// point, so each stage's τ is corrected by K = 1/sqrt(2^(1/N) − 1) to keep
// the composite cascade's −3 dB point at the requested τ.
type ExpSmootherCascade[R Sample] struct {
	stages      int
	sampleRate  R
	attackTime  R
	releaseTime R

	attackCoeff  R
	releaseCoeff R

	state []R
}

// NewExpSmootherCascade creates a cascade of the given stage count.
func NewExpSmootherCascade[R Sample](stages int, sampleRate R) *ExpSmootherCascade[R] {
	if stages < 1 {
		stages = 1
	}
	c := &ExpSmootherCascade[R]{
		stages:     stages,
		sampleRate: sampleRate,
		state:      make([]R, stages),
	}
	return c
}

// Stages returns N, the number of cascaded one-pole stages.
func (c *ExpSmootherCascade[R]) Stages() int { return c.stages }

// SetSampleRate recomputes both coefficients.
func (c *ExpSmootherCascade[R]) SetSampleRate(sr R) {
	c.sampleRate = sr
	if c.attackTime > 0 {
		c.attackCoeff = c.coeff(c.attackTime)
	}
	if c.releaseTime > 0 {
		c.releaseCoeff = c.coeff(c.releaseTime)
	}
}

// SetAttackTime recomputes the attack coefficient for time constant tauA.
func (c *ExpSmootherCascade[R]) SetAttackTime(tauA R) {
	if tauA <= 0 {
		tauA = R(1e-6)
	}
	c.attackTime = tauA
	c.attackCoeff = c.coeff(tauA)
}

// SetReleaseTime recomputes the release coefficient for time constant tauR.
func (c *ExpSmootherCascade[R]) SetReleaseTime(tauR R) {
	if tauR <= 0 {
		tauR = R(1e-6)
	}
	c.releaseTime = tauR
	c.releaseCoeff = c.coeff(tauR)
}

// coeff computes c = exp(-2*pi*K*T/tau) for the cascade's stage count.
func (c *ExpSmootherCascade[R]) coeff(tau R) R {
	n := float64(c.stages)
	k := 1.0 / math.Sqrt(math.Pow(2, 1.0/n)-1)
	t := 1.0 / float64(c.sampleRate)
	return R(math.Exp(-2 * math.Pi * k * t / float64(tau)))
}

// Reset zeroes every stage's state.
func (c *ExpSmootherCascade[R]) Reset() {
	for i := range c.state {
		c.state[i] = 0
	}
}

// Process writes the cascaded smoothed envelope of x into y. x and y may
// alias the same backing array.
func (c *ExpSmootherCascade[R]) Process(x, y []R) {
	for n := range x {
		u := x[n]
		for i := 0; i < c.stages; i++ {
			var coeff R
			if u > c.state[i] {
				coeff = c.attackCoeff
			} else {
				coeff = c.releaseCoeff
			}
			c.state[i] = u + coeff*(c.state[i]-u)
			u = c.state[i]
		}
		y[n] = c.state[c.stages-1]
	}
}
