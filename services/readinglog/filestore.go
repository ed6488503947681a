//go:build !rp2040 && !rp2350

package readinglog

import (
	"os"

	"github.com/pkg/errors"

	"airbuddy-go/types"
)

// FileStore appends to a CSV file, writing the header when it creates the
// file. Each line is flushed with its own write so a crash loses at most the
// line in flight.
type FileStore struct {
	f *os.File
}

func OpenFileStore(path string) (*FileStore, error) {
	st, statErr := os.Stat(path)
	fresh := statErr != nil || st.Size() == 0

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open reading log")
	}
	if fresh {
		if _, err := f.WriteString(Header + "\n"); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "write log header")
		}
	}
	return &FileStore{f: f}, nil
}

func (s *FileStore) Append(rec types.LogRecord) error {
	if _, err := s.f.WriteString(Line(rec) + "\n"); err != nil {
		return err
	}
	return s.f.Sync()
}

func (s *FileStore) Close() error { return s.f.Close() }
