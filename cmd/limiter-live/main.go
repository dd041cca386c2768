// Command limiter-live loads a WAV file, limits it, and plays the result
// back through the live audio device selected at build time (Oto by
// default, SDL2 with -tags sdl2, ffplay as a last-resort fallback).
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/xyproto/limiter"
	"github.com/xyproto/limiter/harness"
	"github.com/xyproto/limiter/playback"
)

var (
	inPath      string
	preGainDB   float64
	thresholdDB float64
	attackMs    float64
	holdMs      float64
	releaseMs   float64
)

func init() {
	flag.StringVar(&inPath, "in", "", "Input WAV file to limit and play (required)")
	flag.Float64Var(&preGainDB, "pregain", 0, "Pre-gain, in dB")
	flag.Float64Var(&thresholdDB, "threshold", -0.3, "Limiting threshold, in dB")
	flag.Float64Var(&attackMs, "attack", 10, "Attack time, in milliseconds")
	flag.Float64Var(&holdMs, "hold", 0, "Hold time, in milliseconds")
	flag.Float64Var(&releaseMs, "release", 50, "Release time, in milliseconds")
}

func main() {
	flag.Parse()
	logger := log.New(os.Stderr)

	if inPath == "" {
		logger.Fatal("-in is required")
	}

	xL, xR, sampleRate, err := harness.LoadStereoWav(inPath)
	if err != nil {
		logger.Fatal("failed to load input", "err", err)
	}

	cfg := limiter.DefaultConfig[float64]()
	cfg.SampleRate = float64(sampleRate)
	cfg.PreGainDB = preGainDB
	cfg.ThresholdDB = thresholdDB
	cfg.AttackTime = attackMs / 1000
	cfg.HoldTime = holdMs / 1000
	cfg.ReleaseTime = releaseMs / 1000

	lim, err := limiter.New[float64](cfg)
	if err != nil {
		logger.Fatal("invalid limiter configuration", "err", err)
	}

	yL := make([]float64, len(xL))
	yR := make([]float64, len(xR))
	lim.Process(xL, xR, yL, yR)

	player, err := playback.NewPlayer(sampleRate)
	if err != nil {
		logger.Fatal("no playback backend available", "err", err)
	}
	defer player.Close()

	logger.Info("playing limited output", "path", inPath, "samples", len(yL))
	if err := player.Play(yL, yR, sampleRate); err != nil {
		logger.Fatal("playback failed", "err", err)
	}
}
