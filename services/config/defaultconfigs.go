package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
//
// Thresholds are per-sensor calibration values; adjust against the ENS160
// datasheet when the board revision changes.
// -----------------------------------------------------------------------------

const cfgPico = `{
  "measure": {
      "dwell_ms": 10000,
      "progress_tick_ms": 250
  },
  "sensors": {
      "timeout_ms": 3000,
      "warmup_ms": 500,
      "aht21_addr": 56,
      "ens160_addr": 83
  },
  "rater": {
      "eco2_moderate_ppm": 800,
      "eco2_poor_ppm": 1200,
      "eco2_severe_ppm": 2000,
      "tvoc_moderate_ppb": 220,
      "tvoc_poor_ppb": 660,
      "tvoc_severe_ppb": 2200
  },
  "button": {
      "pin": 15,
      "debounce_ms": 30,
      "invert": true
  },
  "gps": {
      "enabled": true,
      "uart_id": 1,
      "baud": 9600,
      "tx_pin": 8,
      "rx_pin": 9
  },
  "log": {
      "path": "air_records.csv",
      "ring_size": 16
  },
  "heartbeat": {
      "interval": 5
  },
  "telemetry": {
      "enabled": false,
      "topics": ["status/#"]
  }
}`

const cfgHost = `{
  "measure": {
      "dwell_ms": 10000,
      "progress_tick_ms": 250
  },
  "sensors": {
      "timeout_ms": 3000,
      "warmup_ms": 200
  },
  "rater": {
      "eco2_moderate_ppm": 800,
      "eco2_poor_ppm": 1200,
      "eco2_severe_ppm": 2000,
      "tvoc_moderate_ppb": 220,
      "tvoc_poor_ppb": 660,
      "tvoc_severe_ppb": 2200
  },
  "button": {
      "debounce_ms": 30
  },
  "gps": {
      "enabled": false
  },
  "log": {
      "path": "air_records.csv",
      "ring_size": 64
  },
  "heartbeat": {
      "interval": 10
  },
  "telemetry": {
      "enabled": true,
      "topics": ["status/#"]
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
