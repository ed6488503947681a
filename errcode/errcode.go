package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Measurement path.
	SensorUnavailable  Code = "sensor_unavailable"
	SensorDataInvalid  Code = "sensor_data_invalid"
	StorageUnavailable Code = "storage_unavailable"
	DisplayUnavailable Code = "display_unavailable"

	// Cross-cutting.
	Busy          Code = "busy"
	NotReady      Code = "not_ready"
	Timeout       Code = "timeout"
	Unsupported   Code = "unsupported"
	InvalidConfig Code = "invalid_config"
	InvalidParams Code = "invalid_params"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap builds an E carrying a code, an operation tag and a cause.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		if inner := u.Unwrap(); inner != nil {
			if c := Of(inner); c != Error {
				return c
			}
		}
	}
	return Error
}

// Is reports whether err resolves to code c.
func Is(err error, c Code) bool { return Of(err) == c }
