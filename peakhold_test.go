package limiter

import "testing"

func TestPeakHoldRisesToConstantInput(t *testing.T) {
	c := NewPeakHoldCascade[float64](8, 48000)
	c.SetHoldTime(0.01)

	n := c.Stages()*c.HoldSamplesPerStage() + 10
	x := make([]float64, n)
	for i := range x {
		x[i] = 0.7
	}
	y := make([]float64, n)
	c.Process(x, y)

	if y[n-1] != 0.7 {
		t.Fatalf("expected cascade to reach the constant input level, got %v", y[n-1])
	}
}

func TestPeakHoldMonotoneRiseThenRelease(t *testing.T) {
	c := NewPeakHoldCascade[float64](8, 48000)
	c.SetHoldTime(0.01)

	hold := c.Stages() * c.HoldSamplesPerStage()
	u := 0.5
	x := make([]float64, hold+hold) // u for `hold` samples, then 0
	for i := 0; i < hold; i++ {
		x[i] = u
	}
	y := make([]float64, len(x))
	c.Process(x, y)

	// Output must still equal u for at least `hold` samples after the
	// input drops to zero (spec.md §8).
	for i := hold; i < hold+hold; i++ {
		if y[i] != u {
			t.Errorf("sample %d: expected held peak %v, got %v", i, u, y[i])
		}
	}
}

func TestPeakHoldSecondaryPeakRecovery(t *testing.T) {
	sr := 48000.0
	c := NewPeakHoldCascade[float64](8, sr)
	c.SetHoldTime(0.008) // matches attack=0.008s in the scenario

	n := int(0.02 * sr)
	x := make([]float64, n)
	x[0] = 1.0
	secondAt := int(0.002 * sr)
	x[secondAt] = 0.5
	y := make([]float64, n)
	c.Process(x, y)

	checkAt := secondAt + int(0.004*sr)
	if checkAt >= n {
		checkAt = n - 1
	}
	if y[checkAt] < 0.5 {
		t.Errorf("expected secondary peak to surface by sample %d, got %v", checkAt, y[checkAt])
	}
}

func TestPeakHoldResetIdempotent(t *testing.T) {
	c := NewPeakHoldCascade[float64](8, 48000)
	c.SetHoldTime(0.01)
	x := make([]float64, 500)
	for i := range x {
		x[i] = 0.3
	}
	y := make([]float64, len(x))
	c.Process(x, y)

	c.Reset()
	for i, v := range c.output {
		if v != 0 {
			t.Fatalf("output[%d] not zeroed by reset: %v", i, v)
		}
	}
	for i, v := range c.timer {
		if v != 0 {
			t.Fatalf("timer[%d] not zeroed by reset: %v", i, v)
		}
	}
	c.Reset()
	for _, v := range c.output {
		if v != 0 {
			t.Fatalf("second reset left non-zero output")
		}
	}
}
