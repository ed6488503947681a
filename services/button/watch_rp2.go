//go:build rp2040 || rp2350

package button

import (
	"machine"

	"airbuddy-go/x/timex"
)

// Attach configures the pin and routes both edges into the service. The ISR
// does one register read and a non-blocking enqueue, nothing else.
func (s *Service) Attach() error {
	pin := machine.Pin(s.cfg.Pin)
	mode := machine.PinInputPulldown
	if s.cfg.Invert {
		mode = machine.PinInputPullup
	}
	pin.Configure(machine.PinConfig{Mode: mode})

	return pin.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
		s.Offer(p.Get(), timex.NowMs())
	})
}
