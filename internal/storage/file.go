package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrLogNotFound is returned by ReadEvents when the log file does not exist.
var ErrLogNotFound = errors.New("analytics log not found")

// FileRecorder appends events to a line-oriented log file.
type FileRecorder struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewFileRecorder(path string) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to init log file: %w", err)
	}
	_ = f.Close()
	return &FileRecorder{path: path, now: time.Now}, nil
}

func (r *FileRecorder) Path() string { return r.path }

// Append writes one line for event. A zero timestamp is stamped with the
// current time. The file is reopened on every call so that an external
// rotation takes effect on the next write.
func (r *FileRecorder) Append(event Event) error {
	at := r.now()
	if event.Timestamp.IsZero() {
		event.Timestamp = at
	}
	line, err := FormatLine(event, at)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open append: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	if _, err := io.WriteString(f, line+"\n"); err != nil {
		return fmt.Errorf("write append: %w", err)
	}
	return nil
}

func (r *FileRecorder) Load() ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ReadEvents(r.path)
}

// ReadEvents parses every line of the file at path. A missing file yields
// ErrLogNotFound; callers treat it as an empty log.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, path)
		}
		return nil, fmt.Errorf("open read: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return ParseEvents(f)
}

// maxLineBytes bounds a single log line. Longer lines are skipped like any
// other malformed line.
const maxLineBytes = 10 * 1024 * 1024

// ParseEvents applies ParseLine to each line and drops the ones that do not parse.
func ParseEvents(rd io.Reader) ([]Event, error) {
	return parseEvents(rd, maxLineBytes)
}

func parseEvents(rd io.Reader, limit int) ([]Event, error) {
	br := bufio.NewReaderSize(rd, 64*1024)
	var (
		events  []Event
		line    []byte
		tooLong bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return events, fmt.Errorf("read: %w", err)
		}

		if !tooLong {
			if ev, ok := ParseLine(strings.TrimRight(string(line), "\r\n")); ok {
				events = append(events, ev)
			}
		}
		line = line[:0]
		tooLong = false

		if err != nil {
			return events, nil
		}
	}
}
