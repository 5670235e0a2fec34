package logger

import (
	"strconv"
	"strings"
	"sync"
)

// eventSampler lets keep out of every per events through, counted
// separately per event name so one noisy event cannot starve the others.
type eventSampler struct {
	mu     sync.Mutex
	keep   int
	per    int
	counts map[string]int
}

func newEventSampler(keep, per int) *eventSampler {
	s := &eventSampler{}
	s.Set(keep, per)
	return s
}

// Set changes the ratio and resets the counters. keep <= 0 or per <= 0
// disables sampling.
func (s *eventSampler) Set(keep, per int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep <= 0 || per <= 0 || keep >= per {
		keep, per = 0, 0
	}
	s.keep, s.per = keep, per
	s.counts = make(map[string]int)
}

// Allow reports whether this occurrence of event should be logged.
func (s *eventSampler) Allow(event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.per == 0 {
		return true
	}
	n := s.counts[event] % s.per
	s.counts[event] = n + 1
	return n < s.keep
}

// parseRatio reads "1/50", "50" (one in fifty), "all" or "off".
// ok is false for malformed input.
func parseRatio(raw string) (keep, per int, ok bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "all", "off", "0":
		return 0, 0, true
	}
	num, den, hasSlash := strings.Cut(raw, "/")
	if !hasSlash {
		num, den = "1", raw
	}
	k, err1 := strconv.Atoi(strings.TrimSpace(num))
	p, err2 := strconv.Atoi(strings.TrimSpace(den))
	if err1 != nil || err2 != nil || k <= 0 || p <= 0 {
		return 0, 0, false
	}
	return k, p, true
}
