// Package measure is the device's one controller: it owns the state machine
// Idle -> Sampling -> ShowingResult -> Idle and drives sensors, rating,
// display and log from a single goroutine. Nothing else mutates device
// state; everyone else watches the retained status topic.
package measure

import (
	"context"
	"time"

	"airbuddy-go/bus"
	"airbuddy-go/errcode"
	"airbuddy-go/rating"
	"airbuddy-go/services/button"
	"airbuddy-go/services/display"
	"airbuddy-go/services/gps"
	"airbuddy-go/services/readinglog"
	"airbuddy-go/services/sensors"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
	"airbuddy-go/x/timex"
)

const serviceName = "measure"

// StatusTopic carries types.DeviceStatus, retained.
var StatusTopic = bus.T("status", "measure")

// errorDwellMs is how long a failure screen stays up before the idle prompt
// returns. Short: the user just pressed the button and is watching.
const errorDwellMs = 3000

type Controller struct {
	cfg    types.MeasureConfig
	sensor sensors.Reader
	rater  rating.Rater
	disp   display.Driver
	log    *readinglog.Log

	state   types.DeviceState
	lastFix types.GPSFix
	conn    *bus.Connection
}

func NewController(cfg types.MeasureConfig, sensor sensors.Reader, rater rating.Rater, disp display.Driver, log *readinglog.Log) *Controller {
	return &Controller{
		cfg:    cfg,
		sensor: sensor,
		rater:  rater,
		disp:   disp,
		log:    log,
		state:  types.StateIdle,
	}
}

// Start runs the control loop until ctx is done.
func (c *Controller) Start(ctx context.Context, conn *bus.Connection) {
	go c.run(ctx, conn)
}

type sampleResult struct {
	rd  types.Reading
	err error
}

func (c *Controller) run(ctx context.Context, conn *bus.Connection) {
	c.conn = conn
	pressSub := conn.Subscribe(button.PressTopic)
	fixSub := conn.Subscribe(gps.FixTopic)

	c.enterIdle(errcode.OK)

	// dwellTimer covers both the result dwell and the error screen; it is
	// armed on entry to the relevant state and drained on reuse.
	dwellTimer := time.NewTimer(time.Hour)
	timex.DrainTimer(dwellTimer)

	var ticker *time.Ticker
	var tickCh <-chan time.Time
	var sampleCh chan sampleResult
	tick := 0

	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tickCh = nil
		}
	}
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			return

		case m := <-fixSub.Channel():
			if fix, ok := m.Payload.(types.GPSFix); ok {
				c.lastFix = fix
			}

		case <-pressSub.Channel():
			// Presses outside Idle are discarded, not queued. At most one
			// measurement is in flight.
			if c.state != types.StateIdle {
				logx.Debugf(serviceName, "press ignored in %s", string(c.state))
				continue
			}
			timex.DrainTimer(dwellTimer)
			c.setState(types.StateSampling, errcode.OK)
			tick = 0
			c.show(c.disp.ShowProgress(tick))
			ticker = time.NewTicker(time.Duration(c.cfg.ProgressTickMs) * time.Millisecond)
			tickCh = ticker.C

			sampleCh = make(chan sampleResult, 1)
			go func(ch chan sampleResult) {
				rd, err := c.sensor.Sample(ctx)
				ch <- sampleResult{rd: rd, err: err}
			}(sampleCh)

		case <-tickCh:
			tick++
			c.show(c.disp.ShowProgress(tick))

		case res := <-sampleCh:
			sampleCh = nil
			stopTicker()
			if res.err != nil {
				// No rating, no record. Transient error screen, then the
				// press path is live again immediately.
				code := errcode.Of(res.err)
				logx.Warnf(serviceName, "sample failed: %v", res.err)
				c.enterIdle(code)
				c.show(c.disp.ShowError(code, "measurement failed"))
				timex.ResetTimer(dwellTimer, errorDwellMs*time.Millisecond)
				continue
			}

			rt := c.rater.Rate(res.rd)
			code := errcode.OK
			if err := c.log.Append(types.LogRecord{
				Reading: res.rd,
				Level:   rt.Level,
				Label:   rt.Label(),
				Fix:     c.lastFix,
			}); err != nil {
				// Reported, never rolls back the result the user is owed.
				logx.Errorf(serviceName, "log append failed: %v", err)
				code = errcode.Of(err)
			}
			c.setState(types.StateShowingResult, code)
			c.show(c.disp.ShowResult(rt))
			timex.ResetTimer(dwellTimer, time.Duration(c.cfg.DwellMs)*time.Millisecond)

		case <-dwellTimer.C:
			if c.state == types.StateShowingResult {
				c.enterIdle(errcode.OK)
			} else if c.state == types.StateIdle {
				// Error screen expiry: restore the prompt.
				c.show(c.disp.ShowIdle())
			}
		}
	}
}

func (c *Controller) enterIdle(code errcode.Code) {
	c.setState(types.StateIdle, code)
	if code == errcode.OK {
		c.show(c.disp.ShowIdle())
	}
}

// setState publishes the retained status. State changes are visible on the
// bus before the matching screen lands on the panel.
func (c *Controller) setState(st types.DeviceState, code errcode.Code) {
	c.state = st
	c.conn.Publish(&bus.Message{
		Topic:    StatusTopic,
		Payload:  types.DeviceStatus{State: st, Code: string(code), TS: timex.NowMs()},
		Retained: true,
	})
}

// show absorbs display failures: the panel going away must never stall
// sampling or logging.
func (c *Controller) show(err error) {
	if err != nil {
		logx.Warnf(serviceName, "display: %v", err)
	}
}
