// Package ublox6 parses NMEA sentences from a u-blox 6 GPS receiver.
// The parser is push-based: feed it raw UART bytes as they arrive and ask
// for the latest fix. Only RMC and GGA sentences are interpreted; everything
// else is skipped cheaply.
package ublox6

// Fix is the last position solution assembled from RMC/GGA.
type Fix struct {
	Valid bool
	Lat   float64
	Lon   float64
	Sats  int
	// UTC is the hhmmss field of the last valid RMC, useful as a coarse
	// clock check. Zero when no RMC seen yet.
	UTC int
}

const maxBuf = 2048

// Parser accumulates bytes and extracts complete sentences.
type Parser struct {
	buf []byte
	fix Fix
}

func NewParser() *Parser {
	return &Parser{buf: make([]byte, 0, 256)}
}

// Fix returns the latest assembled fix.
func (p *Parser) Fix() Fix { return p.fix }

// Feed consumes a chunk of UART bytes and returns how many complete
// sentences were parsed (valid or not).
func (p *Parser) Feed(chunk []byte) int {
	p.buf = append(p.buf, chunk...)
	// Prevent runaway growth when no line terminator arrives.
	if len(p.buf) > maxBuf {
		p.buf = append(p.buf[:0], p.buf[len(p.buf)-maxBuf/2:]...)
	}
	n := 0
	for {
		i := indexByte(p.buf, '\n')
		if i < 0 {
			return n
		}
		line := trimCR(p.buf[:i])
		p.buf = append(p.buf[:0], p.buf[i+1:]...)
		if p.parseSentence(line) {
			n++
		}
	}
}

func (p *Parser) parseSentence(line []byte) bool {
	if len(line) < 9 || line[0] != '$' {
		return false
	}
	body, ok := stripChecksum(line[1:])
	if !ok {
		return false
	}
	fields := splitFields(body)
	if len(fields) == 0 {
		return false
	}
	talker := fields[0]
	// Accept any talker prefix (GP, GN, ...); match the 3-letter type.
	if len(talker) != 5 {
		return false
	}
	switch string(talker[2:]) {
	case "RMC":
		p.parseRMC(fields)
	case "GGA":
		p.parseGGA(fields)
	default:
		return false
	}
	return true
}

// $xxRMC,time,status,lat,NS,lon,EW,...
func (p *Parser) parseRMC(f []string) {
	if len(f) < 7 {
		return
	}
	if f[2] != "A" {
		p.fix.Valid = false
		return
	}
	lat, ok1 := parseCoord(f[3], f[4])
	lon, ok2 := parseCoord(f[5], f[6])
	if !ok1 || !ok2 {
		return
	}
	p.fix.Valid = true
	p.fix.Lat = lat
	p.fix.Lon = lon
	if t, ok := atoiPrefix(f[1], 6); ok {
		p.fix.UTC = t
	}
}

// $xxGGA,time,lat,NS,lon,EW,quality,numsat,...
func (p *Parser) parseGGA(f []string) {
	if len(f) < 8 {
		return
	}
	if f[6] == "0" || f[6] == "" {
		return
	}
	lat, ok1 := parseCoord(f[2], f[3])
	lon, ok2 := parseCoord(f[4], f[5])
	if !ok1 || !ok2 {
		return
	}
	p.fix.Valid = true
	p.fix.Lat = lat
	p.fix.Lon = lon
	if n, ok := atoiPrefix(f[7], len(f[7])); ok {
		p.fix.Sats = n
	}
}

// ---- field helpers (no strings/strconv to keep MCU builds lean) ----

// parseCoord converts NMEA ddmm.mmmm / dddmm.mmmm plus hemisphere into
// signed decimal degrees.
func parseCoord(v, hemi string) (float64, bool) {
	dot := -1
	for i := 0; i < len(v); i++ {
		if v[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 3 {
		return 0, false
	}
	degDigits := dot - 2
	deg, ok := atoiPrefix(v, degDigits)
	if !ok {
		return 0, false
	}
	min, ok := parseFloat(v[degDigits:])
	if !ok || min >= 60 {
		return 0, false
	}
	out := float64(deg) + min/60
	switch hemi {
	case "S", "W":
		out = -out
	case "N", "E":
	default:
		return 0, false
	}
	return out, true
}

func parseFloat(s string) (float64, bool) {
	var ip, fp int64
	var fdiv float64 = 1
	i := 0
	for ; i < len(s) && s[i] != '.'; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		ip = ip*10 + int64(c-'0')
	}
	if i < len(s) {
		for i++; i < len(s); i++ {
			c := s[i]
			if c < '0' || c > '9' {
				return 0, false
			}
			fp = fp*10 + int64(c-'0')
			fdiv *= 10
		}
	}
	return float64(ip) + float64(fp)/fdiv, true
}

func atoiPrefix(s string, n int) (int, bool) {
	if n > len(s) {
		n = len(s)
	}
	if n == 0 {
		return 0, false
	}
	out := 0
	for i := 0; i < n; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		out = out*10 + int(c-'0')
	}
	return out, true
}

// stripChecksum validates "*hh" if present and returns the sentence body.
func stripChecksum(b []byte) ([]byte, bool) {
	star := -1
	for i := len(b) - 1; i >= 0 && i >= len(b)-4; i-- {
		if b[i] == '*' {
			star = i
			break
		}
	}
	if star < 0 {
		return b, true // some modules omit checksums; accept
	}
	if star+3 != len(b) {
		return nil, false
	}
	want := hexVal(b[star+1])<<4 | hexVal(b[star+2])
	if want < 0 {
		return nil, false
	}
	sum := byte(0)
	for _, c := range b[:star] {
		sum ^= c
	}
	if sum != byte(want) {
		return nil, false
	}
	return b[:star], true
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return -1
}

func splitFields(b []byte) []string {
	out := make([]string, 0, 16)
	start := 0
	for i := 0; i <= len(b); i++ {
		if i == len(b) || b[i] == ',' {
			out = append(out, string(b[start:i]))
			start = i + 1
		}
	}
	return out
}

func indexByte(b []byte, c byte) int {
	for i := range b {
		if b[i] == c {
			return i
		}
	}
	return -1
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}
