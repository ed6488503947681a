// Package sensors samples the AHT21 + ENS160 pair as one atomic Reading.
// Every Sample performs a fresh hardware transaction; there is no caching
// and no internal retry, the controller decides what a failure means.
package sensors

import (
	"context"
	"time"

	"airbuddy-go/drivers/aht21"
	"airbuddy-go/drivers/ens160"
	"airbuddy-go/errcode"
	"airbuddy-go/types"
	"airbuddy-go/x/mathx"
)

// Reader is the capability contract the controller depends on.
type Reader interface {
	// Sample returns one consistent snapshot of all four quantities.
	// Fails with errcode.SensorUnavailable when the peripherals do not
	// answer within the configured timeout, errcode.SensorDataInvalid when
	// values fall outside physically plausible ranges.
	Sample(ctx context.Context) (types.Reading, error)
}

// Clock supplies capture timestamps (Unix seconds). Injected so the RTC
// service owns time.
type Clock func() int64

// AirSensor reads both chips over one serialized I2C bus.
type AirSensor struct {
	aht *aht21.Device
	ens *ens160.Device
	cfg types.SensorConfig
	now Clock
}

// New wires the two drivers over bus (already serialized, see I2CLock).
// Configure must be called once before the first Sample.
func New(bus I2C, cfg types.SensorConfig, now Clock) *AirSensor {
	s := &AirSensor{
		aht: aht21.New(bus),
		ens: ens160.New(bus),
		cfg: cfg,
		now: now,
	}
	return s
}

// Configure initialises both chips. ENS160 part-id mismatch is fatal for the
// sensor pair; AHT init failures surface on the first Sample instead.
func (s *AirSensor) Configure() error {
	s.aht.Configure(aht21.Config{Address: s.cfg.AHT21Addr})
	s.ens.SetAddress(s.cfg.ENS160Addr)
	if err := s.ens.Configure(); err != nil {
		return errcode.Wrap(errcode.SensorUnavailable, "ens160_configure", err)
	}
	return nil
}

// Sample performs one full read with a bounded overall timeout. The hardware
// transaction runs in a goroutine; the state machine guarantees at most one
// Sample is in flight, so an abandoned transaction cannot overlap the next.
func (s *AirSensor) Sample(ctx context.Context) (types.Reading, error) {
	timeout := time.Duration(s.cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		rd  types.Reading
		err error
	}
	ch := make(chan result, 1)
	go func() {
		rd, err := s.readOnce()
		ch <- result{rd, err}
	}()

	select {
	case <-ctx.Done():
		return types.Reading{}, errcode.Wrap(errcode.SensorUnavailable, "sample_timeout", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return types.Reading{}, r.err
		}
		if err := Validate(r.rd); err != nil {
			return types.Reading{}, err
		}
		return r.rd, nil
	}
}

func (s *AirSensor) readOnce() (types.Reading, error) {
	var ts aht21.Sample
	if err := s.aht.Read(&ts); err != nil {
		return types.Reading{}, errcode.Wrap(errcode.SensorUnavailable, "aht21_read", err)
	}
	tempC := float64(ts.DeciCelsius()) / 10
	rhPct := float64(ts.DeciRelHumidity()) / 10

	// Push ambient conditions into the gas sensor's compensation engine
	// before reading air data. Best effort: stale compensation beats no
	// reading.
	_ = s.ens.SetEnvironment(tempC, rhPct)

	warmup := time.Duration(s.cfg.WarmupMs) * time.Millisecond
	if warmup <= 0 {
		warmup = 500 * time.Millisecond
	}
	var air ens160.Sample
	if err := s.ens.Read(&air, warmup); err != nil {
		return types.Reading{}, errcode.Wrap(errcode.SensorUnavailable, "ens160_read", err)
	}

	return types.Reading{
		TempC:       tempC,
		HumidityPct: rhPct,
		ECO2PPM:     int(air.ECO2PPM),
		TVOCPPB:     int(air.TVOCPPB),
		AQI:         air.AQI,
		TS:          s.now(),
	}, nil
}

// Physically plausible ranges. Outside these the chip answered but the data
// cannot be trusted.
const (
	minTempC = -40.0
	maxTempC = 85.0
	minECO2  = 400
	maxECO2  = 65000
	maxTVOC  = 65000
)

// Validate rejects readings outside the plausible envelope.
func Validate(rd types.Reading) error {
	if !mathx.Between(rd.TempC, minTempC, maxTempC) {
		return errcode.Wrap(errcode.SensorDataInvalid, "temp_range", nil)
	}
	if !mathx.Between(rd.HumidityPct, 0.0, 100.0) {
		return errcode.Wrap(errcode.SensorDataInvalid, "humidity_range", nil)
	}
	if !mathx.Between(rd.ECO2PPM, minECO2, maxECO2) {
		return errcode.Wrap(errcode.SensorDataInvalid, "eco2_range", nil)
	}
	if !mathx.Between(rd.TVOCPPB, 0, maxTVOC) {
		return errcode.Wrap(errcode.SensorDataInvalid, "tvoc_range", nil)
	}
	return nil
}
