package sensors

import (
	"context"
	"errors"
	"testing"
	"time"

	"airbuddy-go/errcode"
	"airbuddy-go/types"
)

// fakeBus routes transactions by address and answers with canned register
// values, loosely in the manner of a real AHT21 + ENS160 pair.
type fakeBus struct {
	ahtFrame     []byte
	ensRegs      map[byte][]byte
	collectDelay time.Duration
	err          error
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	switch addr {
	case 0x38: // AHT21
		if len(w) == 1 && w[0] == 0x71 {
			r[0] = 0x08 // calibrated, idle
			return nil
		}
		if len(w) == 0 && len(r) >= 6 {
			if f.collectDelay > 0 {
				time.Sleep(f.collectDelay)
			}
			copy(r, f.ahtFrame)
			return nil
		}
		return nil // trigger / init writes
	case 0x53: // ENS160
		if len(w) == 1 {
			copy(r, f.ensRegs[w[0]])
			return nil
		}
		return nil // opmode / env writes
	}
	return errors.New("unknown address")
}

// ahtFrame encodes 22.0 °C / 45.0 %RH as a ready conversion.
func ahtFrame() []byte {
	rawH := uint32(uint64(450) * 0x100000 / 1000)
	rawT := uint32(uint64(220+500) * 0x100000 / 2000)
	return []byte{
		0x08,
		byte(rawH >> 12), byte(rawH >> 4), byte(rawH<<4) | byte(rawT>>16),
		byte(rawT >> 8), byte(rawT),
	}
}

func ensRegs(eco2, tvoc uint16, aqi byte) map[byte][]byte {
	return map[byte][]byte{
		0x00: {0x60, 0x01}, // part id
		0x20: {0x02},       // NEWDAT
		0x21: {aqi},
		0x22: {byte(tvoc), byte(tvoc >> 8)},
		0x24: {byte(eco2), byte(eco2 >> 8)},
	}
}

func fixedClock() Clock { return func() int64 { return 1700000000 } }

func testCfg() types.SensorConfig {
	c := types.DefaultSensorConfig()
	c.TimeoutMs = 1000
	c.WarmupMs = 100
	return c
}

func TestSample_HappyPath(t *testing.T) {
	bus := &fakeBus{ahtFrame: ahtFrame(), ensRegs: ensRegs(450, 300, 2)}
	s := New(NewI2CLock(bus), testCfg(), fixedClock())
	if err := s.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	rd, err := s.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if rd.ECO2PPM != 450 || rd.TVOCPPB != 300 || rd.AQI != 2 {
		t.Errorf("air values = %+v, want eco2=450 tvoc=300 aqi=2", rd)
	}
	if rd.TempC < 21.9 || rd.TempC > 22.1 {
		t.Errorf("TempC = %.2f, want ~22.0", rd.TempC)
	}
	if rd.HumidityPct < 44.9 || rd.HumidityPct > 45.1 {
		t.Errorf("HumidityPct = %.2f, want ~45.0", rd.HumidityPct)
	}
	if rd.TS != 1700000000 {
		t.Errorf("TS = %d, want clock value", rd.TS)
	}
}

func TestSample_TimeoutMapsToSensorUnavailable(t *testing.T) {
	bus := &fakeBus{ahtFrame: ahtFrame(), ensRegs: ensRegs(450, 300, 2), collectDelay: 500 * time.Millisecond}
	cfg := testCfg()
	cfg.TimeoutMs = 50
	s := New(NewI2CLock(bus), cfg, fixedClock())

	_, err := s.Sample(context.Background())
	if errcode.Of(err) != errcode.SensorUnavailable {
		t.Fatalf("Sample err = %v (%s), want sensor_unavailable", err, errcode.Of(err))
	}
}

func TestSample_BusErrorMapsToSensorUnavailable(t *testing.T) {
	bus := &fakeBus{err: errors.New("nack")}
	s := New(NewI2CLock(bus), testCfg(), fixedClock())

	_, err := s.Sample(context.Background())
	if errcode.Of(err) != errcode.SensorUnavailable {
		t.Fatalf("Sample err = %v (%s), want sensor_unavailable", err, errcode.Of(err))
	}
}

func TestSample_ImplausibleECO2Rejected(t *testing.T) {
	// ENS answering with 100 ppm is below the chip's own floor of 400.
	bus := &fakeBus{ahtFrame: ahtFrame(), ensRegs: ensRegs(100, 300, 2)}
	s := New(NewI2CLock(bus), testCfg(), fixedClock())

	_, err := s.Sample(context.Background())
	if errcode.Of(err) != errcode.SensorDataInvalid {
		t.Fatalf("Sample err = %v (%s), want sensor_data_invalid", err, errcode.Of(err))
	}
}

func TestValidate_Ranges(t *testing.T) {
	ok := types.Reading{TempC: 22, HumidityPct: 45, ECO2PPM: 450, TVOCPPB: 80}
	if err := Validate(ok); err != nil {
		t.Fatalf("Validate(ok) = %v", err)
	}
	cases := []types.Reading{
		{TempC: -60, HumidityPct: 45, ECO2PPM: 450, TVOCPPB: 80},
		{TempC: 22, HumidityPct: 120, ECO2PPM: 450, TVOCPPB: 80},
		{TempC: 22, HumidityPct: 45, ECO2PPM: 70000, TVOCPPB: 80},
		{TempC: 22, HumidityPct: 45, ECO2PPM: 450, TVOCPPB: -1},
	}
	for i, rd := range cases {
		if errcode.Of(Validate(rd)) != errcode.SensorDataInvalid {
			t.Errorf("case %d: Validate(%+v) did not reject", i, rd)
		}
	}
}

func TestSim_DeterministicAndValid(t *testing.T) {
	s := NewSim(fixedClock())
	for i := 0; i < 20; i++ {
		rd, err := s.Sample(context.Background())
		if err != nil {
			t.Fatalf("sim Sample: %v", err)
		}
		if err := Validate(rd); err != nil {
			t.Errorf("sim produced implausible reading %+v: %v", rd, err)
		}
	}
}
