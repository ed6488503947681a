// Package conv holds allocation-free numeric formatting for screen text.
// No fmt/strconv so MCU builds stay small.
package conv

// Itoa writes the base-10 representation of n into buf and returns the used
// slice. buf should be length >= 20 for int64.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	if u == 0 {
		i--
		buf[i] = '0'
	}
	for u > 0 && i > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}

// ItoaS is the string-returning convenience form.
func ItoaS(n int64) string {
	var buf [20]byte
	return string(Itoa(buf[:], n))
}

// Hex renders u in lowercase base 16 with no prefix ("3c").
func Hex(u uint64) string {
	const digits = "0123456789abcdef"
	if u == 0 {
		return "0"
	}
	var buf [16]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = digits[u&0xF]
		u >>= 4
	}
	return string(buf[i:])
}

// Ftoa1 renders f with exactly one decimal place ("23.4", "-0.5").
// Good enough for temperature and humidity lines; not a general float printer.
func Ftoa1(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}
	// Round to tenths.
	d := int64(f*10 + 0.5)
	s := ItoaS(d / 10)
	out := s + "." + ItoaS(d%10)
	if neg {
		out = "-" + out
	}
	return out
}
