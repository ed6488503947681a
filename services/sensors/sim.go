package sensors

import (
	"context"
	"time"

	"airbuddy-go/types"
)

// SimReader is a deterministic stand-in for the sensor pair on hosts with no
// hardware attached, and the failure-injection point for tests.
type SimReader struct {
	now Clock
	i   int

	// Delay stretches each Sample to exercise the progress spinner.
	Delay time.Duration
	// FailWith, when set, is returned instead of a reading.
	FailWith error
}

func NewSim(now Clock) *SimReader {
	return &SimReader{now: now}
}

// A slow indoor day: CO₂ creeping up over consecutive samples, TVOC mostly
// flat with one spike.
var simECO2 = []int{430, 460, 520, 640, 780, 950, 1150, 980, 760, 560}
var simTVOC = []int{60, 70, 90, 120, 700, 180, 140, 110, 90, 70}

func (s *SimReader) Sample(ctx context.Context) (types.Reading, error) {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return types.Reading{}, ctx.Err()
		case <-time.After(s.Delay):
		}
	}
	if s.FailWith != nil {
		return types.Reading{}, s.FailWith
	}
	k := s.i % len(simECO2)
	s.i++
	return types.Reading{
		TempC:       21.5 + float64(k)*0.2,
		HumidityPct: 45 + float64(k),
		ECO2PPM:     simECO2[k],
		TVOCPPB:     simTVOC[k],
		AQI:         2,
		TS:          s.now(),
	}, nil
}
