// Package readinglog appends rated readings to the device's CSV log and
// keeps a small in-RAM ring of recent records. The log is append-only; a
// failed append surfaces as errcode.StorageUnavailable and never rolls back
// the measurement that produced it.
package readinglog

import (
	"sync"

	"airbuddy-go/errcode"
	"airbuddy-go/types"
	"airbuddy-go/x/conv"
)

// Header is the first line of a fresh log file.
const Header = "timestamp,temp_c,humidity,eco2_ppm,tvoc_ppb,rating"

// Store is the persistence backend.
type Store interface {
	Append(rec types.LogRecord) error
}

// Tee fans an append out to several stores; the first failure wins but every
// store still sees the record.
func Tee(stores ...Store) Store { return teeStore(stores) }

type teeStore []Store

func (t teeStore) Append(rec types.LogRecord) error {
	var first error
	for _, s := range t {
		if err := s.Append(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Line renders rec as its CSV log line.
func Line(rec types.LogRecord) string {
	rd := rec.Reading
	return conv.ItoaS(rd.TS) + "," +
		conv.Ftoa1(rd.TempC) + "," +
		conv.Ftoa1(rd.HumidityPct) + "," +
		conv.ItoaS(int64(rd.ECO2PPM)) + "," +
		conv.ItoaS(int64(rd.TVOCPPB)) + "," +
		rec.Label
}

// Log is the append front end.
type Log struct {
	mu    sync.Mutex
	store Store
	ring  []types.LogRecord
	next  int
	count int
}

// New builds a log over store, retaining the last ringSize records in RAM.
func New(store Store, ringSize int) *Log {
	if ringSize <= 0 {
		ringSize = 16
	}
	return &Log{store: store, ring: make([]types.LogRecord, ringSize)}
}

// Append persists rec. The RAM ring is updated even when the store fails, so
// the status screen still shows what was measured.
func (l *Log) Append(rec types.LogRecord) error {
	l.mu.Lock()
	l.ring[l.next] = rec
	l.next = (l.next + 1) % len(l.ring)
	if l.count < len(l.ring) {
		l.count++
	}
	l.mu.Unlock()

	if err := l.store.Append(rec); err != nil {
		return errcode.Wrap(errcode.StorageUnavailable, "append", err)
	}
	return nil
}

// Recent returns up to n most recent records, newest first.
func (l *Log) Recent(n int) []types.LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > l.count {
		n = l.count
	}
	out := make([]types.LogRecord, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, l.ring[(l.next-i+len(l.ring))%len(l.ring)])
	}
	return out
}

// Count returns how many records the ring currently retains.
func (l *Log) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
