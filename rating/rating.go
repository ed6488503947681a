// Package rating maps readings to a qualitative air quality level.
// Pure and total: every physically plausible Reading gets exactly one level,
// no I/O, no failure path. Thresholds are calibration-dependent and come
// from config, never from code.
package rating

import "airbuddy-go/types"

type Rater struct {
	cfg types.RaterConfig
}

func New(cfg types.RaterConfig) Rater {
	// Guard against degenerate config: thresholds must be ascending so a
	// worse input can never yield a better level.
	if cfg.ECO2PoorPPM < cfg.ECO2ModeratePPM {
		cfg.ECO2PoorPPM = cfg.ECO2ModeratePPM
	}
	if cfg.ECO2SeverePPM < cfg.ECO2PoorPPM {
		cfg.ECO2SeverePPM = cfg.ECO2PoorPPM
	}
	if cfg.TVOCPoorPPB < cfg.TVOCModeratePPB {
		cfg.TVOCPoorPPB = cfg.TVOCModeratePPB
	}
	if cfg.TVOCSeverePPB < cfg.TVOCPoorPPB {
		cfg.TVOCSeverePPB = cfg.TVOCPoorPPB
	}
	return Rater{cfg: cfg}
}

// Rate classifies one reading. The overall level is the worst of the
// per-metric levels: a single poor metric dominates an otherwise good one.
func (r Rater) Rate(rd types.Reading) types.Rating {
	lvl := levelFor(rd.ECO2PPM, r.cfg.ECO2ModeratePPM, r.cfg.ECO2PoorPPM, r.cfg.ECO2SeverePPM)
	if t := levelFor(rd.TVOCPPB, r.cfg.TVOCModeratePPB, r.cfg.TVOCPoorPPB, r.cfg.TVOCSeverePPB); t.WorseThan(lvl) {
		lvl = t
	}
	return types.Rating{Level: lvl, Reading: rd}
}

func levelFor(v, moderate, poor, severe int) types.RatingLevel {
	switch {
	case v >= severe:
		return types.RatingSevere
	case v >= poor:
		return types.RatingPoor
	case v >= moderate:
		return types.RatingModerate
	default:
		return types.RatingGood
	}
}
