package sensors

import "sync"

// I2C matches tinygo.org/x/drivers.I2C so both the TinyGo machine bus and
// host adapters plug in without wrappers.
type I2C interface {
	Tx(addr uint16, w, r []byte) error
}

// I2CLock serializes transactions on a shared bus. The AHT21, ENS160 and
// SSD1306 all sit on one physical I2C bus, so nothing in the core may assume
// exclusive access.
type I2CLock struct {
	mu  sync.Mutex
	bus I2C
}

func NewI2CLock(bus I2C) *I2CLock {
	return &I2CLock{bus: bus}
}

func (l *I2CLock) Tx(addr uint16, w, r []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bus.Tx(addr, w, r)
}
