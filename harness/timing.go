package harness

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// TimingResult summarizes repeated measurements of a single operation.
type TimingResult struct {
	Trials  int
	Mean    time.Duration
	RSD     float64 // relative standard deviation, as a fraction of Mean
	Samples []time.Duration
}

// TimeProcess runs process trials times over a fixed-size stereo block and
// reports mean and relative standard deviation, the microsecond timing
// harness named in spec.md §6(c). process is expected to be a closure over
// a single already-constructed Limiter so that each trial measures only
// Process, not construction.
func TimeProcess(trials int, process func()) TimingResult {
	samples := make([]time.Duration, trials)
	for i := 0; i < trials; i++ {
		start := time.Now()
		process()
		samples[i] = time.Since(start)
	}

	var sum time.Duration
	for _, s := range samples {
		sum += s
	}
	mean := sum / time.Duration(trials)

	var variance float64
	meanF := float64(mean)
	for _, s := range samples {
		d := float64(s) - meanF
		variance += d * d
	}
	variance /= float64(trials)
	stddev := math.Sqrt(variance)

	rsd := 0.0
	if meanF != 0 {
		rsd = stddev / meanF
	}

	return TimingResult{Trials: trials, Mean: mean, RSD: rsd, Samples: samples}
}

// LogResult reports a TimingResult via structured logging, in place of the
// teacher's bare fmt.Printf progress lines.
func LogResult(logger *log.Logger, label string, r TimingResult) {
	logger.Info("timing", "label", label, "trials", r.Trials, "mean", r.Mean, "rsd", r.RSD)
}
