// Command limiter-bench times repeated Limiter.Process calls over a fixed
// block size and reports mean latency and relative standard deviation, the
// microsecond timing harness named in spec.md §6(c).
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/xyproto/limiter"
	"github.com/xyproto/limiter/harness"
)

var (
	blockSize  int
	trials     int
	sampleRate int
)

func init() {
	flag.IntVar(&blockSize, "block", 512, "Block size, in samples")
	flag.IntVar(&trials, "trials", 2000, "Number of timed trials")
	flag.IntVar(&sampleRate, "samplerate", 48000, "Sample rate (in Hz)")
}

func main() {
	flag.Parse()
	logger := log.New(os.Stderr)

	cfg := limiter.DefaultConfig[float64]()
	cfg.SampleRate = float64(sampleRate)
	cfg.MaxBlockSize = blockSize

	lim, err := limiter.New[float64](cfg)
	if err != nil {
		logger.Fatal("invalid limiter configuration", "err", err)
	}

	gen := harness.NewGenerator(sampleRate, 1)
	xL, xR := gen.Noise(harness.NoiseWhite, blockSize, 0.5)
	yL := make([]float64, blockSize)
	yR := make([]float64, blockSize)

	result := harness.TimeProcess(trials, func() {
		lim.Process(xL, xR, yL, yR)
	})

	harness.LogResult(logger, "limiter.Process", result)
}
