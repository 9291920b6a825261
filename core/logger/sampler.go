package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ratioSampler passes the first allow events out of every window events.
// A zero configuration disables sampling entirely, letting everything pass.
type ratioSampler struct {
	// cfg packs allow into the high 32 bits and window into the low 32 bits
	// so Set swaps both atomically.
	cfg  atomic.Uint64
	seen atomic.Uint64
}

func newRatioSampler(allow, window int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(allow, window)
	return s
}

// Set reconfigures the sampling ratio and restarts the window.
func (s *ratioSampler) Set(allow, window int) {
	if allow <= 0 || window <= 0 {
		s.cfg.Store(0)
		s.seen.Store(0)
		return
	}
	if allow > window {
		allow = window
	}
	s.cfg.Store(uint64(allow)<<32 | uint64(uint32(window)))
	s.seen.Store(0)
}

// Allow reports whether the current event falls inside the sampled slice of
// its window.
func (s *ratioSampler) Allow() bool {
	cfg := s.cfg.Load()
	if cfg == 0 {
		return true
	}
	allow := cfg >> 32
	window := uint64(uint32(cfg))
	n := s.seen.Add(1)
	return (n-1)%window < allow
}

// parseRatioSpec understands "N/M" (N out of M) and a bare "M" (1 out of M).
// Anything else, including zero, reads as sampling disabled.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if numStr, denStr, ok := strings.Cut(spec, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(numStr))
		den, err2 := strconv.Atoi(strings.TrimSpace(denStr))
		if err1 == nil && err2 == nil {
			return num, den
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
