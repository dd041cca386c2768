package limiter

import (
	"errors"
	"fmt"
	"math"
)

// Config holds the limiter's SI-unit configuration (spec.md §3.2) plus a
// handful of construction-time sizing parameters that the spec's reference
// configuration fixes at M=8, N=4 but that this implementation exposes for
// callers who need a different stage count.
type Config[R Sample] struct {
	SampleRate  R // Hz, > 0
	PreGainDB   R // dB, finite
	AttackTime  R // s, > 0
	HoldTime    R // s, >= 0
	ReleaseTime R // s, > 0
	ThresholdDB R // dB, finite

	PeakHoldStages int // M, defaults to 8
	SmootherStages int // N, defaults to 4

	// DelayCapacity bounds how large a lookahead (attack time) the limiter
	// can be configured with; it must stay comfortably above the largest
	// lookahead in samples the caller will ever request. Defaults to 1<<16.
	DelayCapacity int

	// MaxBlockSize bounds the largest block passed to Process without
	// triggering a scratch-buffer reallocation (spec.md §9 "no dynamic
	// allocation in process"). Defaults to 4096.
	MaxBlockSize int

	// Strict selects the configuration-error policy of spec.md §7: when
	// true, domain errors are reported synchronously (fail-fast); when
	// false (the default), they are clamped to the nearest valid value and
	// processing continues.
	Strict bool
}

// DefaultConfig returns spec.md §3.2's default configuration.
func DefaultConfig[R Sample]() Config[R] {
	return Config[R]{
		SampleRate:     48000,
		PreGainDB:      0,
		AttackTime:     0.01,
		HoldTime:       0,
		ReleaseTime:    0.05,
		ThresholdDB:    -0.3,
		PeakHoldStages: 8,
		SmootherStages: 4,
		DelayCapacity:  1 << 16,
		MaxBlockSize:   4096,
		Strict:         false,
	}
}

func (cfg Config[R]) withDefaults() Config[R] {
	if cfg.PeakHoldStages == 0 {
		cfg.PeakHoldStages = 8
	}
	if cfg.SmootherStages == 0 {
		cfg.SmootherStages = 4
	}
	if cfg.DelayCapacity == 0 {
		cfg.DelayCapacity = 1 << 16
	}
	if cfg.MaxBlockSize == 0 {
		cfg.MaxBlockSize = 4096
	}
	return cfg
}

// validate reports the first configuration domain error found, per
// spec.md §7: non-finite or non-positive sample rate, non-positive attack
// or release time, negative hold time, non-finite pre-gain or threshold.
func (cfg Config[R]) validate() error {
	sr := float64(cfg.SampleRate)
	if math.IsNaN(sr) || math.IsInf(sr, 0) || sr <= 0 {
		return fmt.Errorf("limiter: sample rate must be finite and > 0, got %v", cfg.SampleRate)
	}
	if a := float64(cfg.AttackTime); math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		return fmt.Errorf("limiter: attack time must be finite and > 0, got %v", cfg.AttackTime)
	}
	if r := float64(cfg.ReleaseTime); math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return fmt.Errorf("limiter: release time must be finite and > 0, got %v", cfg.ReleaseTime)
	}
	if h := float64(cfg.HoldTime); math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return fmt.Errorf("limiter: hold time must be finite and >= 0, got %v", cfg.HoldTime)
	}
	if p := float64(cfg.PreGainDB); math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("limiter: pre-gain must be finite, got %v", cfg.PreGainDB)
	}
	if t := float64(cfg.ThresholdDB); math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("limiter: threshold must be finite, got %v", cfg.ThresholdDB)
	}
	return nil
}

// clamp returns a copy of cfg with every field forced into its valid
// range, used by the release-build (non-Strict) policy of spec.md §7.
func (cfg Config[R]) clamp() Config[R] {
	if sr := float64(cfg.SampleRate); math.IsNaN(sr) || math.IsInf(sr, 0) || sr <= 0 {
		cfg.SampleRate = 48000
	}
	if a := float64(cfg.AttackTime); math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		cfg.AttackTime = 0.01
	}
	if r := float64(cfg.ReleaseTime); math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		cfg.ReleaseTime = 0.05
	}
	if h := float64(cfg.HoldTime); math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		cfg.HoldTime = 0
	}
	if p := float64(cfg.PreGainDB); math.IsNaN(p) || math.IsInf(p, 0) {
		cfg.PreGainDB = 0
	}
	if t := float64(cfg.ThresholdDB); math.IsNaN(t) || math.IsInf(t, 0) {
		cfg.ThresholdDB = -0.3
	}
	return cfg
}

var errInvalidConfig = errors.New("limiter: invalid configuration")
