//go:build rp2040 || rp2350

// MCU builds print over the default console (USB CDC) without pulling in fmt.
// Only the verbs the services actually use are implemented: %s %d %v %x.
package logx

import "airbuddy-go/x/conv"

var debugEnabled = false

func SetLevel(debug bool) { debugEnabled = debug }

func Debugf(svc, format string, args ...any) {
	if debugEnabled {
		emit("D", svc, format, args)
	}
}
func Infof(svc, format string, args ...any)  { emit("I", svc, format, args) }
func Warnf(svc, format string, args ...any)  { emit("W", svc, format, args) }
func Errorf(svc, format string, args ...any) { emit("E", svc, format, args) }

func emit(level, svc, format string, args []any) {
	print(level)
	print(" [")
	print(svc)
	print("] ")
	ai := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			printByte(c)
			continue
		}
		i++
		verb := format[i]
		if verb == '%' {
			printByte('%')
			continue
		}
		if ai >= len(args) {
			printByte('%')
			printByte(verb)
			continue
		}
		printArg(verb, args[ai])
		ai++
	}
	println()
}

func printByte(c byte) { print(string(rune(c))) }

func printArg(verb byte, v any) {
	switch x := v.(type) {
	case string:
		print(x)
	case error:
		print(x.Error())
	case bool:
		if x {
			print("true")
		} else {
			print("false")
		}
	case int:
		printInt(verb, int64(x))
	case int16:
		printInt(verb, int64(x))
	case int32:
		printInt(verb, int64(x))
	case int64:
		printInt(verb, x)
	case uint8:
		printInt(verb, int64(x))
	case uint16:
		printInt(verb, int64(x))
	case uint32:
		printInt(verb, int64(x))
	case float64:
		print(conv.Ftoa1(x))
	case float32:
		print(conv.Ftoa1(float64(x)))
	default:
		print("<?>")
	}
}

func printInt(verb byte, n int64) {
	if verb == 'x' && n >= 0 {
		print(conv.Hex(uint64(n)))
		return
	}
	print(conv.ItoaS(n))
}
