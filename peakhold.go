package limiter

import "math"

// PeakHoldCascade approximates a moving maximum over a window of H samples
// using M series peak-hold sections of H/M samples each. A single
// peak-hold section holds a detected peak for exactly its hold window and
// cannot see a smaller secondary peak inside that window; cascading M
// sections lets a fading peak reveal a later, smaller peak instead of
// masking it, at the cost of added latency (spec.md §4.2).
type PeakHoldCascade[R Sample] struct {
	stages     int
	sampleRate R
	holdTime   R

	holdSamplesPerStage int

	output []R
	timer  []int
}

// NewPeakHoldCascade creates a cascade of the given stage count.
func NewPeakHoldCascade[R Sample](stages int, sampleRate R) *PeakHoldCascade[R] {
	if stages < 1 {
		stages = 1
	}
	c := &PeakHoldCascade[R]{
		stages:     stages,
		sampleRate: sampleRate,
		output:     make([]R, stages),
		timer:      make([]int, stages),
	}
	c.recompute()
	return c
}

// Stages returns M, the number of cascaded sections.
func (c *PeakHoldCascade[R]) Stages() int { return c.stages }

// HoldSamplesPerStage returns the per-stage hold window in samples,
// round(holdTime / M * sampleRate).
func (c *PeakHoldCascade[R]) HoldSamplesPerStage() int { return c.holdSamplesPerStage }

// SetSampleRate recomputes the per-stage hold window.
func (c *PeakHoldCascade[R]) SetSampleRate(sr R) {
	c.sampleRate = sr
	c.recompute()
}

// SetHoldTime recomputes the per-stage hold window.
func (c *PeakHoldCascade[R]) SetHoldTime(h R) {
	if h < 0 {
		h = 0
	}
	c.holdTime = h
	c.recompute()
}

func (c *PeakHoldCascade[R]) recompute() {
	c.holdSamplesPerStage = int(math.Round(float64(c.holdTime) / float64(c.stages) * float64(c.sampleRate)))
	if c.holdSamplesPerStage < 0 {
		c.holdSamplesPerStage = 0
	}
}

// Reset zeroes every stage's held output and timer.
func (c *PeakHoldCascade[R]) Reset() {
	for i := range c.output {
		c.output[i] = 0
		c.timer[i] = 0
	}
}

// Process writes the cascaded peak-hold envelope of x into y. x and y may
// alias the same backing array.
func (c *PeakHoldCascade[R]) Process(x, y []R) {
	for n := range x {
		u := absR(x[n])
		for i := 0; i < c.stages; i++ {
			isNewPeak := u >= c.output[i]
			isTimeout := c.timer[i] >= c.holdSamplesPerStage
			if isNewPeak || isTimeout {
				c.output[i] = u
				c.timer[i] = 0
			} else {
				c.timer[i]++
			}
			u = c.output[i]
		}
		y[n] = c.output[c.stages-1]
	}
}
