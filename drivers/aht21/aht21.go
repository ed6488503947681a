// Package aht21 drives the AHT21/AHT20 temperature and humidity sensor.
// It exposes a two-phase measurement API so callers can interleave other bus
// work during the ~80 ms conversion:
//
//	d.Trigger()              // start a measurement (fast register write)
//	err := d.Collect(&s)     // fetch when ready; ErrNotReady while busy
//
// d.Read() performs trigger + bounded polling for callers that prefer to
// block.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
//
// No floating point on the hot path; fixed-point accessors return tenths of
// units (deci-°C, deci-%RH).
package aht21

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Address is the fixed I2C address of the AHT2x family.
const Address = 0x38

const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

var (
	ErrTimeout  = errors.New("aht21: timeout")
	ErrNotReady = errors.New("aht21: not ready")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	Address uint16
	// PollInterval is used by Read() between Collect() attempts.
	PollInterval time.Duration
	// CollectTimeout bounds the total wait in Read().
	CollectTimeout time.Duration
	// TriggerHint is the nominal conversion time; callers scheduling their
	// own Collect can sleep this long after Trigger.
	TriggerHint time.Duration
}

// Device wraps an I2C connection to one AHT21.
type Device struct {
	bus  drivers.I2C
	addr uint16
	cfg  Config
	buf  [7]byte
}

// New creates the Device object; it does not touch the hardware.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, addr: Address}
}

// Configure applies config and initialises the sensor if it reports
// uncalibrated.
func (d *Device) Configure(cfg Config) {
	if cfg.Address != 0 {
		d.addr = cfg.Address
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Millisecond
	}
	if cfg.CollectTimeout <= 0 {
		cfg.CollectTimeout = 250 * time.Millisecond
	}
	if cfg.TriggerHint <= 0 {
		cfg.TriggerHint = 80 * time.Millisecond
	}
	d.cfg = cfg

	st, err := d.Status()
	if err == nil && st&statusCalibrated != 0 {
		return
	}
	// Force initialisation; tolerate devices that do not ACK immediately.
	_ = d.bus.Tx(d.addr, []byte{cmdInitialize, 0x08, 0x00}, nil)
	time.Sleep(10 * time.Millisecond)
}

// Reset issues a soft reset. Allow ~20 ms before the next transaction.
func (d *Device) Reset() {
	_ = d.bus.Tx(d.addr, []byte{cmdSoftReset}, nil)
}

// Status reads the status byte.
func (d *Device) Status() (byte, error) {
	data := []byte{0}
	if err := d.bus.Tx(d.addr, []byte{cmdStatus}, data); err != nil {
		return 0, err
	}
	return data[0], nil
}

// Trigger starts a measurement. Quick write, no blocking.
func (d *Device) Trigger() error {
	if d.cfg.PollInterval == 0 {
		d.Configure(Config{})
	}
	return d.bus.Tx(d.addr, []byte{cmdTrigger, 0x33, 0x00}, nil)
}

// TriggerHint returns the nominal conversion time to wait before Collect.
func (d *Device) TriggerHint() time.Duration { return d.cfg.TriggerHint }

// Collect reads one measurement. ErrNotReady while the conversion is still
// running; bus errors pass through.
func (d *Device) Collect(out *Sample) error {
	data := d.buf[:6]
	if err := d.bus.Tx(d.addr, nil, data); err != nil {
		return err
	}
	if (data[0]&statusCalibrated) == 0 || (data[0]&statusBusy) != 0 {
		return ErrNotReady
	}
	out.RawHumidity = (uint32(data[1]) << 12) | (uint32(data[2]) << 4) | (uint32(data[3]) >> 4)
	out.RawTemp = (uint32(data[3]&0x0F) << 16) | (uint32(data[4]) << 8) | uint32(data[5])
	return nil
}

// Read performs trigger + bounded polling until Collect succeeds or
// CollectTimeout elapses.
func (d *Device) Read(out *Sample) error {
	if err := d.Trigger(); err != nil {
		return err
	}
	time.Sleep(d.cfg.TriggerHint)
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		err := d.Collect(out)
		switch err {
		case nil:
			return nil
		case ErrNotReady:
			if time.Now().After(deadline) {
				return ErrTimeout
			}
			time.Sleep(d.cfg.PollInterval)
		default:
			return err
		}
	}
}

// Sample holds one raw conversion.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// DeciRelHumidity returns tenths of %RH.
func (s Sample) DeciRelHumidity() int32 {
	return (int32(s.RawHumidity) * 1000) / 0x100000
}

// DeciCelsius returns tenths of °C.
func (s Sample) DeciCelsius() int32 {
	return ((int32(s.RawTemp) * 2000) / 0x100000) - 500
}
