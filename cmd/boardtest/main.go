//go:build rp2040 || rp2350

// Bench smoke test for assembled AirBuddy boards: probes every expected I2C
// address, walks the display through all screens, and runs one real
// measurement. Serial output plus the LED pattern give a pass/fail verdict
// without a host attached.
package main

import (
	"context"
	"machine"
	"time"

	"airbuddy-go/errcode"
	"airbuddy-go/services/display"
	"airbuddy-go/services/rtc"
	"airbuddy-go/services/sensors"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
)

const cyclesToRun = 0 // 0 = loop forever

// Expected bus occupants.
var probes = []struct {
	name string
	addr uint16
}{
	{"aht21", 0x38},
	{"ens160", 0x53},
	{"ssd1306", 0x3C},
	{"ds3231", 0x68},
}

func probe(bus sensors.I2C, addr uint16) bool {
	var b [1]byte
	return bus.Tx(addr, nil, b[:]) == nil
}

func main() {
	time.Sleep(2 * time.Second)
	logx.Infof("boardtest", "starting")

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       machine.GP4,
		SCL:       machine.GP5,
		Frequency: 400_000,
	}); err != nil {
		logx.Errorf("boardtest", "i2c configure: %v", err)
		blinkForever(led)
	}
	bus := sensors.NewI2CLock(machine.I2C0)

	clk := rtc.NewService()
	if err := clk.Sync(bus); err != nil {
		logx.Warnf("boardtest", "rtc: %v", err)
	}

	air := sensors.New(bus, types.DefaultSensorConfig(), clk.Clock())
	sensorsOK := air.Configure() == nil

	sink, _ := display.NewOLEDSink(bus, display.DefaultOLEDAddr)
	screen := display.NewScreen(sink)

	cycle := 0
	for {
		cycle++
		logx.Infof("boardtest", "cycle %d", cycle)
		pass := true

		// 1. Address scan.
		for _, p := range probes {
			if probe(bus, p.addr) {
				logx.Infof("boardtest", "found %s at %x", p.name, p.addr)
			} else {
				logx.Errorf("boardtest", "MISSING %s at %x", p.name, p.addr)
				pass = false
			}
		}

		// 2. Screen walk: anyone watching the panel sees all four renders.
		screen.ShowIdle()
		time.Sleep(time.Second)
		for tick := 0; tick < 16; tick++ {
			screen.ShowProgress(tick)
			time.Sleep(100 * time.Millisecond)
		}
		screen.ShowError(errcode.OK, "screen test")
		time.Sleep(time.Second)

		// 3. One real measurement end to end.
		if sensorsOK {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			rd, err := air.Sample(ctx)
			cancel()
			if err != nil {
				logx.Errorf("boardtest", "sample: %v", err)
				pass = false
			} else {
				logx.Infof("boardtest", "sample eco2=%d tvoc=%d", rd.ECO2PPM, rd.TVOCPPB)
				screen.ShowResult(types.Rating{Level: types.RatingGood, Reading: rd})
			}
		} else {
			pass = false
		}

		if pass {
			logx.Infof("boardtest", "PASS")
			flash(led, 2, 120*time.Millisecond)
		} else {
			logx.Errorf("boardtest", "FAIL")
			flash(led, 1, 400*time.Millisecond)
		}

		if cyclesToRun > 0 && cycle >= cyclesToRun {
			return
		}
		time.Sleep(2 * time.Second)
	}
}

func flash(led machine.Pin, times int, on time.Duration) {
	for i := 0; i < times; i++ {
		led.High()
		time.Sleep(on)
		led.Low()
		time.Sleep(200 * time.Millisecond)
	}
}

func blinkForever(led machine.Pin) {
	for {
		led.High()
		time.Sleep(250 * time.Millisecond)
		led.Low()
		time.Sleep(250 * time.Millisecond)
	}
}
