// Package ens160 drives the ScioSense ENS160 digital metal-oxide gas sensor
// (eCO₂, TVOC, 1..5 AQI). The chip runs its own sampling engine; the host
// sets standard mode once, feeds ambient temperature/humidity for
// compensation, and polls the data registers when NEWDAT flags.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package ens160

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Address is the default I2C address (ADDR pin low selects 0x52).
const Address = 0x53

// PartID is the expected value of the PART_ID register.
const PartID = 0x0160

// Registers.
const (
	regPartID     = 0x00
	regOpMode     = 0x10
	regTempIn     = 0x13
	regRHIn       = 0x15
	regDataStatus = 0x20
	regDataAQI    = 0x21
	regDataTVOC   = 0x22
	regDataECO2   = 0x24
)

// Operating modes.
const (
	OpModeDeepSleep = 0x00
	OpModeIdle      = 0x01
	OpModeStandard  = 0x02
	OpModeReset     = 0xF0
)

// DATA_STATUS bits.
const (
	statusNewData = 0x02 // NEWDAT: fresh AQI/TVOC/eCO₂ available
	statusNewGPR  = 0x01
)

var (
	ErrWrongPart = errors.New("ens160: unexpected part id")
	ErrNotReady  = errors.New("ens160: no fresh data")
)

// Device wraps an I2C connection to one ENS160.
type Device struct {
	bus  drivers.I2C
	addr uint16
	buf  [2]byte
}

// New creates the Device object; it does not touch the hardware.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, addr: Address}
}

// SetAddress overrides the default address (0x52 when ADDR is low).
func (d *Device) SetAddress(addr uint16) {
	if addr != 0 {
		d.addr = addr
	}
}

// Configure checks the part id and switches to standard gas sensing mode.
// The sensing engine needs some warm-up before the first NEWDAT.
func (d *Device) Configure() error {
	id, err := d.readU16(regPartID)
	if err != nil {
		return err
	}
	if id != PartID {
		return ErrWrongPart
	}
	if err := d.writeReg(regOpMode, OpModeStandard); err != nil {
		return err
	}
	time.Sleep(50 * time.Millisecond)
	return nil
}

// SetEnvironment feeds ambient conditions into the compensation engine.
// Scaling per datasheet: Kelvin * 64 for temperature, %RH * 512 for humidity.
func (d *Device) SetEnvironment(tempC, rhPct float64) error {
	tval := uint16((tempC + 273.15) * 64)
	if err := d.writeU16(regTempIn, tval); err != nil {
		return err
	}
	return d.writeU16(regRHIn, uint16(rhPct*512))
}

// DataReady reports whether fresh air quality data is available.
func (d *Device) DataReady() (bool, error) {
	st, err := d.readU8(regDataStatus)
	if err != nil {
		return false, err
	}
	return st&statusNewData != 0, nil
}

// Sample holds one air quality conversion.
type Sample struct {
	AQI     uint8  // 1 (excellent) .. 5 (unhealthy)
	TVOCPPB uint16
	ECO2PPM uint16
}

// ReadAir reads the AQI/TVOC/eCO₂ registers. Callers should gate on
// DataReady; reading stale registers is allowed but returns ErrNotReady so
// the sampler can decide whether the values are acceptable.
func (d *Device) ReadAir(out *Sample) error {
	aqi, err := d.readU8(regDataAQI)
	if err != nil {
		return err
	}
	tvoc, err := d.readU16(regDataTVOC)
	if err != nil {
		return err
	}
	eco2, err := d.readU16(regDataECO2)
	if err != nil {
		return err
	}
	out.AQI = aqi & 0x07
	out.TVOCPPB = tvoc
	out.ECO2PPM = eco2
	return nil
}

// Read is DataReady + ReadAir with a bounded wait.
func (d *Device) Read(out *Sample, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ready, err := d.DataReady()
		if err != nil {
			return err
		}
		if ready {
			return d.ReadAir(out)
		}
		if time.Now().After(deadline) {
			return ErrNotReady
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// ---- register access ----

func (d *Device) readU8(reg byte) (byte, error) {
	buf := d.buf[:1]
	if err := d.bus.Tx(d.addr, []byte{reg}, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *Device) readU16(reg byte) (uint16, error) {
	buf := d.buf[:2]
	if err := d.bus.Tx(d.addr, []byte{reg}, buf); err != nil {
		return 0, err
	}
	// Little-endian register pairs.
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

func (d *Device) writeReg(reg, val byte) error {
	return d.bus.Tx(d.addr, []byte{reg, val}, nil)
}

func (d *Device) writeU16(reg byte, val uint16) error {
	return d.bus.Tx(d.addr, []byte{reg, byte(val), byte(val >> 8)}, nil)
}
