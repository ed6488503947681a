package types

// ------------------------
// Readings & ratings
// ------------------------

// Reading is one atomic air sample. All four quantities come from the same
// sensor transaction; a Reading is never mutated after construction.
type Reading struct {
	TempC       float64 `json:"temp_c"`
	HumidityPct float64 `json:"humidity"`
	ECO2PPM     int     `json:"eco2_ppm"`
	TVOCPPB     int     `json:"tvoc_ppb"`
	// AQI is the ENS160 1..5 index, kept for diagnostics. 0 = unknown.
	AQI uint8 `json:"aqi,omitempty"`
	// TS is Unix seconds at capture (device-local clock).
	TS int64 `json:"ts"`
}

// RatingLevel orders air quality from best to worst. Bigger is worse.
type RatingLevel uint8

const (
	RatingGood RatingLevel = iota
	RatingModerate
	RatingPoor
	RatingSevere
)

func (l RatingLevel) Label() string {
	switch l {
	case RatingGood:
		return "Good"
	case RatingModerate:
		return "Moderate"
	case RatingPoor:
		return "Poor"
	default:
		return "Severe"
	}
}

// WorseThan reports whether l is more severe than o.
func (l RatingLevel) WorseThan(o RatingLevel) bool { return l > o }

// Rating is a classification derived from exactly one Reading.
type Rating struct {
	Level   RatingLevel `json:"level"`
	Reading Reading     `json:"reading"`
}

func (r Rating) Label() string { return r.Level.Label() }

// ------------------------
// Log records
// ------------------------

// GPSFix is the last known position, if the receiver has one.
type GPSFix struct {
	Valid bool    `json:"valid"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	// Sats is the satellite count from GGA, 0 if unknown.
	Sats int `json:"sats,omitempty"`
}

// LogRecord is the persisted form of a Reading plus its Rating.
// Records are append-only; nothing in the core rewrites or deletes them.
type LogRecord struct {
	Reading Reading     `json:"reading"`
	Level   RatingLevel `json:"level"`
	Label   string      `json:"label"`
	Fix     GPSFix      `json:"fix,omitempty"`
}
