//go:build !rp2040 && !rp2350

package rtc

import "time"

// Sync on hosts trusts the OS clock.
func (s *Service) Sync() error {
	s.setFrom(time.Now().Unix())
	return nil
}
