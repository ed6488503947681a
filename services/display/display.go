// Package display renders the device screens into a 1-bit framebuffer and
// pushes them to an SSD1306-class panel. Rendering is pure; only the Sink
// touches hardware, so a push failure is the sole DisplayUnavailable source.
package display

import (
	"airbuddy-go/errcode"
	"airbuddy-go/types"
)

// Sink is the one hardware dependency: something that accepts a finished
// 128x64 frame.
type Sink interface {
	Push(f *Frame) error
}

// Driver is what the controller talks to. Implementations must be safe to
// call from the controller goroutine only; they are not concurrency-safe.
type Driver interface {
	ShowIdle() error
	ShowProgress(tick int) error
	ShowResult(r types.Rating) error
	ShowError(code errcode.Code, msg string) error
}

// Screen renders into an owned frame and pushes through a Sink.
type Screen struct {
	sink  Sink
	frame *Frame
}

func NewScreen(sink Sink) *Screen {
	return &Screen{sink: sink, frame: NewFrame()}
}

func (s *Screen) push(op string) error {
	if err := s.sink.Push(s.frame); err != nil {
		return errcode.Wrap(errcode.DisplayUnavailable, op, err)
	}
	return nil
}

func (s *Screen) ShowIdle() error {
	RenderIdle(s.frame)
	return s.push("show_idle")
}

func (s *Screen) ShowProgress(tick int) error {
	RenderProgress(s.frame, tick)
	return s.push("show_progress")
}

func (s *Screen) ShowResult(r types.Rating) error {
	RenderResult(s.frame, r)
	return s.push("show_result")
}

func (s *Screen) ShowError(code errcode.Code, msg string) error {
	RenderError(s.frame, string(code), msg)
	return s.push("show_error")
}
