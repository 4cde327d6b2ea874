package services

import (
	"sync/atomic"
	"time"
)

// Stats tracks request counters for heartbeats. All methods are safe for
// concurrent use.
type Stats struct {
	started     time.Time
	inFlight    atomic.Int64
	total       atomic.Int64
	failed      atomic.Int64
	logFailures atomic.Int64
	lastUnix    atomic.Int64
}

type StatsSnapshot struct {
	InFlight     int64     `json:"in_flight"`
	Total        int64     `json:"total"`
	Failed       int64     `json:"failed"`
	LogFailures  int64     `json:"log_failures"`
	LastActivity time.Time `json:"last_activity,omitempty"`
	Uptime       string    `json:"uptime"`
}

func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) Begin() {
	s.inFlight.Add(1)
}

func (s *Stats) End(success bool) {
	s.inFlight.Add(-1)
	s.total.Add(1)
	if !success {
		s.failed.Add(1)
	}
	s.lastUnix.Store(time.Now().UnixNano())
}

// LogFailure counts a request log append that was dropped.
func (s *Stats) LogFailure() {
	s.logFailures.Add(1)
}

func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		InFlight:    s.inFlight.Load(),
		Total:       s.total.Load(),
		Failed:      s.failed.Load(),
		LogFailures: s.logFailures.Load(),
		Uptime:      time.Since(s.started).Round(time.Second).String(),
	}
	if last := s.lastUnix.Load(); last != 0 {
		snap.LastActivity = time.Unix(0, last).UTC()
	}
	return snap
}

// Status classifies load the way heartbeat consumers expect.
func (s *Stats) Status() string {
	if s.inFlight.Load() > 0 {
		return "busy"
	}
	return "online"
}
