//go:build rp2040 || rp2350

package rtc

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ds3231"

	"airbuddy-go/errcode"
	"airbuddy-go/x/logx"
)

// Sync reads the DS3231 once at boot. A dead coin cell makes the chip report
// a date near its epoch; those reads are rejected and the device keeps its
// boot-relative clock.
func (s *Service) Sync(bus drivers.I2C) error {
	dev := ds3231.New(bus)
	dev.Configure()

	dt, err := dev.ReadTime()
	if err != nil {
		return errcode.Wrap(errcode.SensorUnavailable, "ds3231_read", err)
	}
	unix := dt.Unix()
	if unix < minValidUnix {
		logx.Warnf("rtc", "ds3231 reports %d, battery likely dead", unix)
		return errcode.Wrap(errcode.SensorDataInvalid, "ds3231_stale", nil)
	}
	s.setFrom(unix)
	logx.Infof("rtc", "synced to ds3231: %d", unix)
	return nil
}
