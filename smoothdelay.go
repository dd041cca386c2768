package limiter

// SmoothDelay is a fixed-capacity circular buffer with two integer read
// heads and one write head. Changing the delay time crosses over linearly
// between the two heads so that the change in delay is click-free and
// Doppler-free, rather than causing a discontinuity or a pitch-shifted
// glide.
//
// Capacity is rounded up to a power of two at construction; head arithmetic
// wraps with an explicit bitmask rather than relying on fixed-width integer
// overflow, which is the variant spec.md §9 explicitly endorses for
// languages (and buffer sizes) where a full native-width wraparound isn't
// practical.
type SmoothDelay[R Sample] struct {
	buffer []R
	mask   uint32

	writePtr uint32

	lowerDelay, upperDelay     uint32
	lowerReadPtr, upperReadPtr uint32

	interpolation R
	targetDelay   uint32
	interpStep    R
	increment     R
}

// NewSmoothDelay creates a SmoothDelay with capacity at least minCapacity
// samples, rounded up to the next power of two. All delays requested via
// SetDelay must stay below this capacity.
func NewSmoothDelay[R Sample](minCapacity int) *SmoothDelay[R] {
	if minCapacity < 2 {
		minCapacity = 2
	}
	cap := nextPowerOfTwo(minCapacity)
	d := &SmoothDelay[R]{
		buffer:     make([]R, cap),
		mask:       uint32(cap - 1),
		interpStep: 1,
	}
	return d
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Cap returns the delay line's capacity in samples.
func (d *SmoothDelay[R]) Cap() int {
	return len(d.buffer)
}

// SetDelay requests a new delay in samples, 0 <= delay < Cap(). The request
// is latched and takes effect at the start of the next crossfade, i.e. once
// the current transition (if any) reaches an endpoint. Out-of-range values
// are clamped rather than left undefined.
func (d *SmoothDelay[R]) SetDelay(samples int) {
	if samples < 0 {
		samples = 0
	}
	max := int(d.mask)
	if samples > max {
		samples = max
	}
	d.targetDelay = uint32(samples)
}

// SetInterpolationTime sets the crossfade length in samples. The new rate
// is adopted the next time a transition begins.
func (d *SmoothDelay[R]) SetInterpolationTime(samples int) {
	if samples < 1 {
		samples = 1
	}
	d.interpStep = 1 / R(samples)
}

// Reset zeroes the buffer, both heads, the target delay, and the crossfade
// position and direction, as at construction; the interpolation time set by
// SetInterpolationTime is kept. Per spec.md §9, every
// element of the backing buffer is cleared individually rather than by a
// raw byte-range clear, and every pointer/fraction field is reset, not just
// a prefix of them.
func (d *SmoothDelay[R]) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePtr = 0
	d.lowerDelay = 0
	d.upperDelay = 0
	d.lowerReadPtr = 0
	d.upperReadPtr = 0
	d.interpolation = 0
	d.targetDelay = 0
	d.increment = 0
}

// Process writes x into the delay line and emits the crossfaded delayed
// output into y. x and y may alias the same backing array (in-place
// processing), since each sample is fully consumed before y[n] is written.
func (d *SmoothDelay[R]) Process(x, y []R) {
	for n := range x {
		d.buffer[d.writePtr] = x[n]

		atLower := d.interpolation == 0
		atUpper := d.interpolation == 1

		if atUpper && d.targetDelay != d.upperDelay {
			d.increment = -d.interpStep
			d.lowerDelay = d.targetDelay
		} else if atLower && d.targetDelay != d.lowerDelay {
			d.increment = d.interpStep
			d.upperDelay = d.targetDelay
		}

		d.lowerReadPtr = (d.writePtr - d.lowerDelay) & d.mask
		d.upperReadPtr = (d.writePtr - d.upperDelay) & d.mask

		d.writePtr = (d.writePtr + 1) & d.mask

		d.interpolation = clampR(d.interpolation+d.increment, 0, 1)

		lo := d.buffer[d.lowerReadPtr]
		hi := d.buffer[d.upperReadPtr]
		y[n] = lo + d.interpolation*(hi-lo)
	}
}
