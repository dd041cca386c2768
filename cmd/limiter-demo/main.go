// Command limiter-demo runs the limiter over a generated or loaded WAV
// file and writes the limited result to a new WAV file, alongside an
// optional CSV dump for plotting.
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/xyproto/limiter"
	"github.com/xyproto/limiter/harness"
)

var (
	version     = "0.1.0"
	inPath      string
	outPath     string
	csvPath     string
	sampleRate  int
	preGainDB   float64
	thresholdDB float64
	attackMs    float64
	holdMs      float64
	releaseMs   float64
	strict      bool
	genSeconds  float64
	genSeed     int64
	showVersion bool
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&inPath, "in", "", "Input WAV file (if empty, a noise burst is generated instead)")
	flag.StringVar(&outPath, "out", "limited.wav", "Output WAV file")
	flag.StringVar(&csvPath, "csv", "", "Optional per-sample CSV dump path")
	flag.IntVar(&sampleRate, "samplerate", 48000, "Sample rate used when generating input (in Hz)")
	flag.Float64Var(&preGainDB, "pregain", 0, "Pre-gain, in dB")
	flag.Float64Var(&thresholdDB, "threshold", -0.3, "Limiting threshold, in dB")
	flag.Float64Var(&attackMs, "attack", 10, "Attack time, in milliseconds")
	flag.Float64Var(&holdMs, "hold", 0, "Hold time, in milliseconds")
	flag.Float64Var(&releaseMs, "release", 50, "Release time, in milliseconds")
	flag.BoolVar(&strict, "strict", false, "Fail fast on an invalid configuration instead of clamping")
	flag.Float64Var(&genSeconds, "gen-seconds", 2, "Duration of the generated test signal, in seconds")
	flag.Int64Var(&genSeed, "gen-seed", 1, "Seed for the generated test signal")
}

func main() {
	flag.Parse()
	logger := log.New(os.Stderr)

	if showVersion {
		logger.Info("limiter-demo", "version", version)
		return
	}

	var xL, xR []float64
	var err error
	if inPath != "" {
		xL, xR, sampleRate, err = harness.LoadStereoWav(inPath)
		if err != nil {
			logger.Fatal("failed to load input", "err", err)
		}
	} else {
		gen := harness.NewGenerator(sampleRate, genSeed)
		xL, xR = gen.Burst(genSeconds, 0.08, 0.3, int(genSeconds/0.3)+1, 0.8)
		logger.Info("generated test signal", "seconds", genSeconds, "samplerate", sampleRate)
	}

	cfg := limiter.DefaultConfig[float64]()
	cfg.SampleRate = float64(sampleRate)
	cfg.PreGainDB = preGainDB
	cfg.ThresholdDB = thresholdDB
	cfg.AttackTime = attackMs / 1000
	cfg.HoldTime = holdMs / 1000
	cfg.ReleaseTime = releaseMs / 1000
	cfg.Strict = strict

	lim, err := limiter.New[float64](cfg)
	if err != nil {
		logger.Fatal("invalid limiter configuration", "err", err)
	}

	yL := make([]float64, len(xL))
	yR := make([]float64, len(xR))
	lim.Process(xL, xR, yL, yR)

	outFile, err := os.Create(outPath)
	if err != nil {
		logger.Fatal("failed to create output file", "err", err)
	}
	defer outFile.Close()

	if err := harness.SaveStereoWav(outFile, yL, yR, sampleRate); err != nil {
		logger.Fatal("failed to save output", "err", err)
	}
	logger.Info("wrote limited output", "path", outPath, "samples", len(yL))

	if csvPath != "" {
		csvFile, err := os.Create(csvPath)
		if err != nil {
			logger.Fatal("failed to create csv file", "err", err)
		}
		defer csvFile.Close()
		if err := harness.DumpCSV(csvFile, xL, xR, yL, yR, nil); err != nil {
			logger.Fatal("failed to write csv", "err", err)
		}
		logger.Info("wrote csv dump", "path", csvPath)
	}
}
