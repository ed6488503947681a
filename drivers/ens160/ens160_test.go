package ens160

import (
	"testing"
	"time"
)

type playbackI2C struct {
	t     *testing.T
	steps []txStep
	i     int
}

type txStep struct {
	wantW []byte
	resp  []byte
	err   error
}

func (p *playbackI2C) Tx(addr uint16, w, r []byte) error {
	if addr != Address {
		p.t.Fatalf("tx to wrong address %#x", addr)
	}
	if p.i >= len(p.steps) {
		p.t.Fatalf("unexpected extra transaction w=%v", w)
	}
	s := p.steps[p.i]
	p.i++
	if s.wantW != nil {
		if len(w) != len(s.wantW) {
			p.t.Fatalf("step %d: wrote %v, want %v", p.i, w, s.wantW)
		}
		for j := range w {
			if w[j] != s.wantW[j] {
				p.t.Fatalf("step %d: wrote %v, want %v", p.i, w, s.wantW)
			}
		}
	}
	if s.err != nil {
		return s.err
	}
	copy(r, s.resp)
	return nil
}

func TestConfigure_ChecksPartIDAndSetsStandardMode(t *testing.T) {
	bus := &playbackI2C{t: t, steps: []txStep{
		{wantW: []byte{regPartID}, resp: []byte{0x60, 0x01}}, // 0x0160 LE
		{wantW: []byte{regOpMode, OpModeStandard}},
	}}
	d := New(bus)
	if err := d.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
}

func TestConfigure_RejectsWrongPart(t *testing.T) {
	bus := &playbackI2C{t: t, steps: []txStep{
		{wantW: []byte{regPartID}, resp: []byte{0x23, 0x01}},
	}}
	d := New(bus)
	if err := d.Configure(); err != ErrWrongPart {
		t.Fatalf("Configure = %v, want ErrWrongPart", err)
	}
}

func TestSetEnvironment_DatasheetScaling(t *testing.T) {
	// 25.0 °C -> (25+273.15)*64 = 19081 = 0x4A89
	// 50.0 %RH -> 50*512 = 25600 = 0x6400
	bus := &playbackI2C{t: t, steps: []txStep{
		{wantW: []byte{regTempIn, 0x89, 0x4A}},
		{wantW: []byte{regRHIn, 0x00, 0x64}},
	}}
	d := New(bus)
	if err := d.SetEnvironment(25.0, 50.0); err != nil {
		t.Fatalf("SetEnvironment: %v", err)
	}
}

func TestRead_WaitsForNewDataThenReads(t *testing.T) {
	bus := &playbackI2C{t: t, steps: []txStep{
		{wantW: []byte{regDataStatus}, resp: []byte{0x00}},
		{wantW: []byte{regDataStatus}, resp: []byte{statusNewData}},
		{wantW: []byte{regDataAQI}, resp: []byte{2}},
		{wantW: []byte{regDataTVOC}, resp: []byte{0x2C, 0x01}}, // 300 ppb
		{wantW: []byte{regDataECO2}, resp: []byte{0xC2, 0x01}}, // 450 ppm
	}}
	d := New(bus)

	var s Sample
	if err := d.Read(&s, time.Second); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.AQI != 2 || s.TVOCPPB != 300 || s.ECO2PPM != 450 {
		t.Errorf("Read = %+v, want AQI=2 TVOC=300 ECO2=450", s)
	}
}

func TestRead_TimesOutWithoutNewData(t *testing.T) {
	bus := &playbackI2C{t: t, steps: []txStep{
		{wantW: []byte{regDataStatus}, resp: []byte{0x00}},
	}}
	d := New(bus)

	var s Sample
	if err := d.Read(&s, 0); err != ErrNotReady {
		t.Fatalf("Read = %v, want ErrNotReady", err)
	}
}
