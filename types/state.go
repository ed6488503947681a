package types

// ------------------------
// Device state (retained)
// ------------------------

// DeviceState is the controller's externally visible mode. Exactly one
// instance exists, owned by the measure service; everyone else observes it
// via the retained status topic.
type DeviceState string

const (
	StateIdle          DeviceState = "idle"
	StateSampling      DeviceState = "sampling"
	StateShowingResult DeviceState = "showing_result"
)

// DeviceStatus is published retained on status/measure.
type DeviceStatus struct {
	State DeviceState `json:"state"`
	// Code is a short error code when the last cycle failed, else "ok".
	Code string `json:"code"`
	TS   int64  `json:"ts_ms"`
}

// ButtonPress is the payload of input/button/press events.
type ButtonPress struct {
	// TS is Unix milliseconds at the debounced edge.
	TS int64 `json:"ts_ms"`
}

// Generic replies.
type OKReply struct {
	OK bool `json:"ok"`
}
type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
