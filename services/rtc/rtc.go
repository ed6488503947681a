// Package rtc owns wall-clock time. Log records carry real timestamps only
// when something trustworthy set the clock: a DS3231 on the board, or the OS
// clock on hosts. Before a successful sync, timestamps count from boot.
package rtc

import (
	"sync/atomic"

	"airbuddy-go/x/timex"
)

// minValidUnix is 2020-01-01; battery-backed RTCs that lost power report
// dates before this and must not be trusted.
const minValidUnix = 1577836800

type Service struct {
	// offset is (true unix) - (local clock unix), fixed at sync.
	offset atomic.Int64
	synced atomic.Bool
}

func NewService() *Service { return &Service{} }

// Now returns Unix seconds, corrected by the last sync.
func (s *Service) Now() int64 {
	return timex.NowUnix() + s.offset.Load()
}

// Clock returns Now as a plain function for injection into samplers.
func (s *Service) Clock() func() int64 { return s.Now }

// Synced reports whether a trusted source has set the clock.
func (s *Service) Synced() bool { return s.synced.Load() }

// setFrom records unix as the current true time.
func (s *Service) setFrom(unix int64) {
	s.offset.Store(unix - timex.NowUnix())
	s.synced.Store(true)
}
