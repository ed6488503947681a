package types

// ------------------------
// Configuration sections
// ------------------------
//
// The config service publishes each top-level section of the embedded device
// config as a retained config/<section> topic with a generic map payload.
// The FromMap constructors normalise those maps into typed structs, applying
// defaults for missing keys.

// MeasureConfig drives the controller timings.
type MeasureConfig struct {
	// DwellMs is how long a result stays on screen before returning to idle.
	DwellMs int
	// ProgressTickMs is the spinner animation cadence while sampling.
	ProgressTickMs int
}

func DefaultMeasureConfig() MeasureConfig {
	return MeasureConfig{DwellMs: 10000, ProgressTickMs: 250}
}

func MeasureConfigFromMap(m map[string]any) MeasureConfig {
	c := DefaultMeasureConfig()
	c.DwellMs = intKey(m, "dwell_ms", c.DwellMs)
	c.ProgressTickMs = intKey(m, "progress_tick_ms", c.ProgressTickMs)
	return c
}

// SensorConfig drives the air sensor pair.
type SensorConfig struct {
	// TimeoutMs bounds one full Sample transaction.
	TimeoutMs int
	// WarmupMs is the ENS160 settle time before the data registers are read.
	WarmupMs   int
	AHT21Addr  uint16
	ENS160Addr uint16
}

func DefaultSensorConfig() SensorConfig {
	return SensorConfig{TimeoutMs: 3000, WarmupMs: 500, AHT21Addr: 0x38, ENS160Addr: 0x53}
}

func SensorConfigFromMap(m map[string]any) SensorConfig {
	c := DefaultSensorConfig()
	c.TimeoutMs = intKey(m, "timeout_ms", c.TimeoutMs)
	c.WarmupMs = intKey(m, "warmup_ms", c.WarmupMs)
	c.AHT21Addr = uint16(intKey(m, "aht21_addr", int(c.AHT21Addr)))
	c.ENS160Addr = uint16(intKey(m, "ens160_addr", int(c.ENS160Addr)))
	return c
}

// RaterConfig holds the per-metric classification thresholds. Values are
// calibration-dependent, so they live in config rather than code.
type RaterConfig struct {
	ECO2ModeratePPM int
	ECO2PoorPPM     int
	ECO2SeverePPM   int
	TVOCModeratePPB int
	TVOCPoorPPB     int
	TVOCSeverePPB   int
}

// DefaultRaterConfig mirrors the CO2/TVOC tiers the original UI used.
func DefaultRaterConfig() RaterConfig {
	return RaterConfig{
		ECO2ModeratePPM: 800,
		ECO2PoorPPM:     1200,
		ECO2SeverePPM:   2000,
		TVOCModeratePPB: 220,
		TVOCPoorPPB:     660,
		TVOCSeverePPB:   2200,
	}
}

func RaterConfigFromMap(m map[string]any) RaterConfig {
	c := DefaultRaterConfig()
	c.ECO2ModeratePPM = intKey(m, "eco2_moderate_ppm", c.ECO2ModeratePPM)
	c.ECO2PoorPPM = intKey(m, "eco2_poor_ppm", c.ECO2PoorPPM)
	c.ECO2SeverePPM = intKey(m, "eco2_severe_ppm", c.ECO2SeverePPM)
	c.TVOCModeratePPB = intKey(m, "tvoc_moderate_ppb", c.TVOCModeratePPB)
	c.TVOCPoorPPB = intKey(m, "tvoc_poor_ppb", c.TVOCPoorPPB)
	c.TVOCSeverePPB = intKey(m, "tvoc_severe_ppb", c.TVOCSeverePPB)
	return c
}

// ButtonConfig describes the press input.
type ButtonConfig struct {
	Pin        int
	DebounceMs int
	// Invert is true when pressed reads low (pull-up wiring).
	Invert bool
}

func DefaultButtonConfig() ButtonConfig {
	return ButtonConfig{Pin: 15, DebounceMs: 30, Invert: true}
}

func ButtonConfigFromMap(m map[string]any) ButtonConfig {
	c := DefaultButtonConfig()
	c.Pin = intKey(m, "pin", c.Pin)
	c.DebounceMs = intKey(m, "debounce_ms", c.DebounceMs)
	c.Invert = boolKey(m, "invert", c.Invert)
	return c
}

// GPSConfig describes the optional u-blox receiver.
type GPSConfig struct {
	Enabled bool
	UARTID  int
	Baud    uint32
	TXPin   int
	RXPin   int
}

func DefaultGPSConfig() GPSConfig {
	return GPSConfig{Enabled: false, UARTID: 1, Baud: 9600, TXPin: 8, RXPin: 9}
}

func GPSConfigFromMap(m map[string]any) GPSConfig {
	c := DefaultGPSConfig()
	c.Enabled = boolKey(m, "enabled", c.Enabled)
	c.UARTID = intKey(m, "uart_id", c.UARTID)
	c.Baud = uint32(intKey(m, "baud", int(c.Baud)))
	c.TXPin = intKey(m, "tx_pin", c.TXPin)
	c.RXPin = intKey(m, "rx_pin", c.RXPin)
	return c
}

// LogConfig describes the reading log.
type LogConfig struct {
	Path string
	// RingSize is the number of recent records kept in RAM for the logging
	// status screen.
	RingSize int
}

func DefaultLogConfig() LogConfig {
	return LogConfig{Path: "air_records.csv", RingSize: 16}
}

func LogConfigFromMap(m map[string]any) LogConfig {
	c := DefaultLogConfig()
	c.Path = strKey(m, "path", c.Path)
	c.RingSize = intKey(m, "ring_size", c.RingSize)
	return c
}

// ------------------------
// Map helpers
// ------------------------

func intKey(m map[string]any, k string, def int) int {
	if m == nil {
		return def
	}
	switch v := m[k].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case uint64:
		return int(v)
	default:
		return def
	}
}

func boolKey(m map[string]any, k string, def bool) bool {
	if m == nil {
		return def
	}
	if v, ok := m[k].(bool); ok {
		return v
	}
	return def
}

func strKey(m map[string]any, k string, def string) string {
	if m == nil {
		return def
	}
	if v, ok := m[k].(string); ok && v != "" {
		return v
	}
	return def
}
