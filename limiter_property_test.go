package limiter

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyNoAmplification checks, for arbitrary configurations and
// input blocks, that the limiter never outputs a sample whose magnitude
// exceeds the largest pre-gained input magnitude seen in the block
// (spec.md §8's universally-quantified no-amplification invariant).
func TestPropertyNoAmplification(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig[float64]()
		cfg.PreGainDB = rapid.Float64Range(-12, 24).Draw(t, "preGainDB")
		cfg.ThresholdDB = rapid.Float64Range(-12, 0).Draw(t, "thresholdDB")
		cfg.AttackTime = rapid.Float64Range(0.001, 0.05).Draw(t, "attackTime")
		cfg.ReleaseTime = rapid.Float64Range(0.001, 0.2).Draw(t, "releaseTime")

		l, err := New[float64](cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		n := rapid.IntRange(1, 512).Draw(t, "n")
		xL := rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "xL")
		xR := rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "xR")
		yL := make([]float64, n)
		yR := make([]float64, n)
		l.Process(xL, xR, yL, yR)

		maxIn := 0.0
		for i := 0; i < n; i++ {
			if v := math.Abs(xL[i]); v > maxIn {
				maxIn = v
			}
			if v := math.Abs(xR[i]); v > maxIn {
				maxIn = v
			}
		}
		bound := maxIn * linFromDB(cfg.PreGainDB)
		for i := 0; i < n; i++ {
			if math.Abs(yL[i]) > bound+1e-6 || math.Abs(yR[i]) > bound+1e-6 {
				t.Fatalf("sample %d exceeds bound %v: yL=%v yR=%v", i, bound, yL[i], yR[i])
			}
		}
	})
}

// TestPropertyThresholdComplianceAtSteadyState checks that once both
// parameter smoothers and the look-ahead delay have settled, a constant
// loud input never produces output above the threshold, for arbitrary
// (reasonable) configurations.
func TestPropertyThresholdComplianceAtSteadyState(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig[float64]()
		cfg.PreGainDB = rapid.Float64Range(6, 40).Draw(t, "preGainDB")
		cfg.ThresholdDB = rapid.Float64Range(-6, -0.1).Draw(t, "thresholdDB")
		cfg.AttackTime = rapid.Float64Range(0.002, 0.02).Draw(t, "attackTime")
		cfg.HoldTime = rapid.Float64Range(0, 0.01).Draw(t, "holdTime")
		cfg.ReleaseTime = rapid.Float64Range(0.01, 0.1).Draw(t, "releaseTime")

		l, err := New[float64](cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		amp := rapid.Float64Range(0.01, 1).Draw(t, "amp")
		n := int(0.3 * float64(cfg.SampleRate))
		xL := make([]float64, n)
		xR := make([]float64, n)
		for i := range xL {
			xL[i] = amp
			xR[i] = amp
		}
		yL := make([]float64, n)
		yR := make([]float64, n)
		l.Process(xL, xR, yL, yR)

		settle := l.LookaheadSamples() + l.peakHold.Stages()*l.peakHold.HoldSamplesPerStage() + 4000
		if settle >= n {
			return // configuration settles slower than this block covers; skip rather than assert on a transient
		}
		thrLin := linFromDB(cfg.ThresholdDB)
		for i := settle; i < n; i++ {
			if math.Abs(yL[i]) > thrLin*1.001+1e-9 {
				t.Fatalf("sample %d: output %v exceeds threshold %v", i, yL[i], thrLin)
			}
		}
	})
}

// TestPropertyResetIdempotence checks that Reset followed by Reset again
// leaves the limiter in the same state as a single Reset, for arbitrary
// prior processing history.
func TestPropertyResetIdempotence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig[float64]()
		l, err := New[float64](cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		n := rapid.IntRange(0, 2000).Draw(t, "n")
		xL := rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "xL")
		xR := rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "xR")
		yL := make([]float64, n)
		yR := make([]float64, n)
		l.Process(xL, xR, yL, yR)

		l.Reset()
		snapshot := append([]float64(nil), l.smoother.state...)
		l.Reset()
		for i, v := range l.smoother.state {
			if v != snapshot[i] {
				t.Fatalf("second reset changed smoother state at %d: %v vs %v", i, v, snapshot[i])
			}
		}
		if l.smoothedPreGain != 0 || l.smoothedThreshold != 0 {
			t.Fatalf("reset did not zero smoothed parameters")
		}
	})
}

// TestPropertyDeterminism checks that two freshly constructed limiters with
// identical configuration produce bit-identical output for the same input,
// for arbitrary configurations and input blocks.
func TestPropertyDeterminism(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig[float64]()
		cfg.PreGainDB = rapid.Float64Range(-6, 12).Draw(t, "preGainDB")
		cfg.AttackTime = rapid.Float64Range(0.001, 0.03).Draw(t, "attackTime")

		n := rapid.IntRange(1, 1024).Draw(t, "n")
		xL := rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "xL")
		xR := rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "xR")

		l1, err := New[float64](cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		l2, err := New[float64](cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		yL1 := make([]float64, n)
		yR1 := make([]float64, n)
		yL2 := make([]float64, n)
		yR2 := make([]float64, n)
		l1.Process(xL, xR, yL1, yR1)
		l2.Process(xL, xR, yL2, yR2)

		for i := 0; i < n; i++ {
			if yL1[i] != yL2[i] || yR1[i] != yR2[i] {
				t.Fatalf("sample %d: non-deterministic output", i)
			}
		}
	})
}

// TestPropertySmootherContractivity checks that the exponential smoother
// cascade's final stage output never moves away from its target on any
// single sample, for arbitrary step sizes and coefficients (spec.md §4.3).
func TestPropertySmootherContractivity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stages := rapid.IntRange(1, 8).Draw(t, "stages")
		sr := rapid.Float64Range(8000, 192000).Draw(t, "sampleRate")
		c := NewExpSmootherCascade[float64](stages, sr)
		c.SetAttackTime(rapid.Float64Range(0.0005, 0.05).Draw(t, "attack"))
		c.SetReleaseTime(rapid.Float64Range(0.0005, 0.2).Draw(t, "release"))

		target := rapid.Float64Range(0, 2).Draw(t, "target")
		n := rapid.IntRange(1, 2000).Draw(t, "n")
		x := make([]float64, n)
		for i := range x {
			x[i] = target
		}
		y := make([]float64, n)
		c.Process(x, y)

		prev := 0.0
		for i, v := range y {
			if target >= prev {
				if v < prev-1e-12 || v > target+1e-9 {
					t.Fatalf("sample %d: rising envelope out of bounds: prev=%v v=%v target=%v", i, prev, v, target)
				}
			} else {
				if v > prev+1e-12 || v < target-1e-9 {
					t.Fatalf("sample %d: falling envelope out of bounds: prev=%v v=%v target=%v", i, prev, v, target)
				}
			}
			prev = v
		}
	})
}

// TestPropertyDelayLineCrossfadeBounded checks that SmoothDelay's output is
// always a convex combination of two buffer samples and therefore never
// exceeds the largest magnitude written to the buffer so far, for arbitrary
// delay/interpolation-time changes.
func TestPropertyDelayLineCrossfadeBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := NewSmoothDelay[float64](1 << 14)
		n := rapid.IntRange(1, 3000).Draw(t, "n")
		x := rapid.SliceOfN(rapid.Float64Range(-1, 1), n, n).Draw(t, "x")
		y := make([]float64, n)

		maxSeen := 0.0
		changes := rapid.IntRange(0, 5).Draw(t, "changes")
		segment := n / (changes + 1)
		if segment == 0 {
			segment = n
		}
		pos := 0
		for c := 0; c <= changes && pos < n; c++ {
			end := pos + segment
			if end > n || c == changes {
				end = n
			}
			d.SetDelay(rapid.IntRange(0, (1<<14)-1).Draw(t, "delay"))
			d.SetInterpolationTime(rapid.IntRange(1, 2000).Draw(t, "interp"))
			d.Process(x[pos:end], y[pos:end])
			for _, v := range x[pos:end] {
				if math.Abs(v) > maxSeen {
					maxSeen = math.Abs(v)
				}
			}
			pos = end
		}

		for i, v := range y {
			if math.Abs(v) > maxSeen+1e-12 {
				t.Fatalf("sample %d: delay output %v exceeds max input magnitude seen %v", i, v, maxSeen)
			}
		}
	})
}
