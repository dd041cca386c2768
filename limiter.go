package limiter

import "math"

// Limiter is the per-block orchestrator described in spec.md §4.4. It owns
// one SmoothDelay per channel, one shared PeakHoldCascade, and one shared
// ExpSmootherCascade, and applies smoothed pre-gain and threshold ramping
// around them. A Limiter instance is not safe for concurrent invocation;
// two channels share the peak-hold, the smoother, and the gain vector but
// each has its own delay line (spec.md §5).
type Limiter[R Sample] struct {
	sampleRate  R
	preGainDB   R
	thresholdDB R
	attackTime  R
	holdTime    R
	releaseTime R

	strict bool

	lookaheadSamples int

	delayL, delayR *SmoothDelay[R]
	peakHold       *PeakHoldCascade[R]
	smoother       *ExpSmootherCascade[R]

	// smoothedPreGain and smoothedThreshold are one-pole smoothed scalars,
	// fixed at a 20 Hz time constant, that replace the raw linear pre-gain
	// and threshold so that parameter automation never clicks (spec.md §3.6).
	smoothedPreGain   R
	smoothedThreshold R
	paramAlpha        R

	// Scratch buffers, sized to MaxBlockSize at construction and grown
	// (never shrunk) only if a caller passes a larger block than
	// configured; per spec.md §9 callers should size blocks at or below
	// MaxBlockSize to avoid ever triggering that growth.
	scratchPreGainedL []R
	scratchPreGainedR []R
	scratchMono       []R
	scratchThreshold  []R
	scratchGain       []R
	scratchDelayedL   []R
	scratchDelayedR   []R
}

// New constructs a Limiter from cfg. Invalid fields are reported as an
// error when cfg.Strict is true; otherwise they are clamped to the nearest
// valid value and construction proceeds (spec.md §7).
func New[R Sample](cfg Config[R]) (*Limiter[R], error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		if cfg.Strict {
			return nil, err
		}
		cfg = cfg.clamp()
	}

	l := &Limiter[R]{
		strict:   cfg.Strict,
		peakHold: NewPeakHoldCascade[R](cfg.PeakHoldStages, cfg.SampleRate),
		smoother: NewExpSmootherCascade[R](cfg.SmootherStages, cfg.SampleRate),
		delayL:   NewSmoothDelay[R](cfg.DelayCapacity),
		delayR:   NewSmoothDelay[R](cfg.DelayCapacity),
	}
	l.growScratch(cfg.MaxBlockSize)

	l.sampleRate = cfg.SampleRate
	l.preGainDB = cfg.PreGainDB
	l.thresholdDB = cfg.ThresholdDB
	l.holdTime = cfg.HoldTime
	l.releaseTime = cfg.ReleaseTime
	l.recomputeParamAlpha()
	l.smoother.SetReleaseTime(cfg.ReleaseTime)

	if err := l.SetAttackTime(cfg.AttackTime); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Limiter[R]) growScratch(n int) {
	if n <= len(l.scratchMono) {
		return
	}
	l.scratchPreGainedL = make([]R, n)
	l.scratchPreGainedR = make([]R, n)
	l.scratchMono = make([]R, n)
	l.scratchThreshold = make([]R, n)
	l.scratchGain = make([]R, n)
	l.scratchDelayedL = make([]R, n)
	l.scratchDelayedR = make([]R, n)
}

func (l *Limiter[R]) recomputeParamAlpha() {
	l.paramAlpha = R(math.Exp(-2 * math.Pi * 20 / float64(l.sampleRate)))
}

// LookaheadSamples returns the current look-ahead delay in samples, a
// multiple of the peak-hold cascade's stage count M (spec.md §9
// "Quantisation of lookahead").
func (l *Limiter[R]) LookaheadSamples() int { return l.lookaheadSamples }

// SetSampleRate rebuilds every rate-dependent coefficient, including the
// lookahead quantisation, which depends on the sample rate.
func (l *Limiter[R]) SetSampleRate(sr R) error {
	if f := float64(sr); math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		if l.strict {
			return errInvalidConfig
		}
		sr = 48000
	}
	l.sampleRate = sr
	l.peakHold.SetSampleRate(sr)
	l.smoother.SetSampleRate(sr)
	l.recomputeParamAlpha()
	return l.SetAttackTime(l.attackTime)
}

// SetAttackTime recomputes the lookahead (quantised to a multiple of M),
// both delay lines' target delay and interpolation time, the peak-hold
// hold time (attack + hold), and the exponential smoother's attack time
// (spec.md §4.4 "Parameter dependencies").
func (l *Limiter[R]) SetAttackTime(a R) error {
	if f := float64(a); math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		if l.strict {
			return errInvalidConfig
		}
		a = 0.01
	}
	l.attackTime = a

	m := l.peakHold.Stages()
	perStage := int(math.Round(float64(a) / float64(m) * float64(l.sampleRate)))
	lookahead := perStage * m
	if lookahead < 0 {
		lookahead = 0
	}
	if cap := l.delayL.Cap(); lookahead >= cap {
		if l.strict {
			return errInvalidConfig
		}
		lookahead = cap - 1
		lookahead -= lookahead % m
	}
	l.lookaheadSamples = lookahead

	interpTime := lookahead
	if interpTime < 1 {
		interpTime = 1
	}
	l.delayL.SetDelay(lookahead)
	l.delayL.SetInterpolationTime(interpTime)
	l.delayR.SetDelay(lookahead)
	l.delayR.SetInterpolationTime(interpTime)

	l.peakHold.SetHoldTime(a + l.holdTime)
	l.smoother.SetAttackTime(a)
	return nil
}

// SetHoldTime updates only the peak-hold cascade's hold time (attack +
// hold).
func (l *Limiter[R]) SetHoldTime(h R) error {
	if f := float64(h); math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		if l.strict {
			return errInvalidConfig
		}
		h = 0
	}
	l.holdTime = h
	l.peakHold.SetHoldTime(l.attackTime + h)
	return nil
}

// SetReleaseTime updates only the exponential smoother's release time.
func (l *Limiter[R]) SetReleaseTime(r R) error {
	if f := float64(r); math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		if l.strict {
			return errInvalidConfig
		}
		r = 0.05
	}
	l.releaseTime = r
	l.smoother.SetReleaseTime(r)
	return nil
}

// SetThreshold sets the limiting ceiling in dB.
func (l *Limiter[R]) SetThreshold(db R) error {
	if f := float64(db); math.IsNaN(f) || math.IsInf(f, 0) {
		if l.strict {
			return errInvalidConfig
		}
		db = -0.3
	}
	l.thresholdDB = db
	return nil
}

// SetPreGain sets the linear pre-gain applied before envelope detection, in
// dB.
func (l *Limiter[R]) SetPreGain(db R) error {
	if f := float64(db); math.IsNaN(f) || math.IsInf(f, 0) {
		if l.strict {
			return errInvalidConfig
		}
		db = 0
	}
	l.preGainDB = db
	return nil
}

// Reset zeroes every owned component's state: both delay lines, the
// peak-hold cascade, the exponential smoother cascade, and the smoothed
// pre-gain/threshold scalars. Configuration (sample rate, attack/release/
// hold times, threshold, pre-gain) is unaffected, and both delay lines are
// re-targeted at the current look-ahead.
func (l *Limiter[R]) Reset() {
	l.delayL.Reset()
	l.delayR.Reset()
	l.delayL.SetDelay(l.lookaheadSamples)
	l.delayR.SetDelay(l.lookaheadSamples)
	l.peakHold.Reset()
	l.smoother.Reset()
	l.smoothedPreGain = 0
	l.smoothedThreshold = 0
}

// Process consumes stereo input buffers xL, xR and writes stereo output
// buffers yL, yR, all of length L = len(xL). Aliasing yL with xL (and/or yR
// with xR) is permitted. Process implements spec.md §4.4's 8-step
// algorithm; it performs no allocation as long as L does not exceed the
// configured MaxBlockSize.
func (l *Limiter[R]) Process(xL, xR, yL, yR []R) {
	n := len(xL)
	l.growScratch(n)

	pgL := l.scratchPreGainedL[:n]
	pgR := l.scratchPreGainedR[:n]
	mono := l.scratchMono[:n]
	thrSeq := l.scratchThreshold[:n]
	gain := l.scratchGain[:n]
	delayedL := l.scratchDelayedL[:n]
	delayedR := l.scratchDelayedR[:n]

	linPreGain := linFromDB(l.preGainDB)
	linThreshold := linFromDB(l.thresholdDB)

	// 1. Pre-gain smoothing and application.
	for i := 0; i < n; i++ {
		l.smoothedPreGain = linPreGain + l.paramAlpha*(l.smoothedPreGain-linPreGain)
		pgL[i] = xL[i] * l.smoothedPreGain
		pgR[i] = xR[i] * l.smoothedPreGain
	}

	// 2. Mono side-chain: channel-wise absolute maximum.
	for i := 0; i < n; i++ {
		mono[i] = maxR(absR(pgL[i]), absR(pgR[i]))
	}

	// 3. Peak-hold.
	l.peakHold.Process(mono, mono)

	// 4. Clip at smoothed threshold.
	for i := 0; i < n; i++ {
		l.smoothedThreshold = linThreshold + l.paramAlpha*(l.smoothedThreshold-linThreshold)
		thrSeq[i] = l.smoothedThreshold
		mono[i] = maxR(mono[i], l.smoothedThreshold)
	}

	// 5. Exponential smoothing.
	l.smoother.Process(mono, mono)

	// 6. Attenuation gain, capped so that 0 < g[n] <= 1: the smoothed
	// envelope in mono[n] can lag below thrSeq[n] (from its zero initial
	// state, or while the smoothed threshold rises).
	for i := 0; i < n; i++ {
		gain[i] = thrSeq[i] / mono[i]
		if gain[i] > 1 {
			gain[i] = 1
		}
	}

	// 7. Look-ahead delay of the pre-gained raw input.
	l.delayL.Process(pgL, delayedL)
	l.delayR.Process(pgR, delayedR)

	// 8. Output.
	for i := 0; i < n; i++ {
		yL[i] = gain[i] * delayedL[i]
		yR[i] = gain[i] * delayedR[i]
	}
}
