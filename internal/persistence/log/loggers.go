package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"altarcraft.ai/internal/sim/world"
)

const hourStamp = "2006-01-02-15"

// segment is one open hour file: file, zstd frame and line buffer.
type segment struct {
	hour string
	file *os.File
	zw   *zstd.Encoder
	buf  *bufio.Writer
}

func openSegment(path, hour string) (*segment, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{hour: hour, file: f, zw: zw, buf: bufio.NewWriterSize(zw, 128*1024)}, nil
}

func (s *segment) close() error {
	flushErr := s.buf.Flush()
	zErr := s.zw.Close()
	fErr := s.file.Close()
	for _, err := range []error{flushErr, zErr, fErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Journal appends JSON lines to zstd files named <prefix>-<UTC hour>.jsonl.zst.
// Each line is flushed through to the encoder before Append returns.
type Journal struct {
	dir    string
	prefix string
	now    func() time.Time

	mu  sync.Mutex
	cur *segment
}

func NewJournal(dir, prefix string) *Journal {
	return &Journal{dir: dir, prefix: prefix, now: time.Now}
}

func (j *Journal) path(hour string) string {
	return filepath.Join(j.dir, fmt.Sprintf("%s-%s.jsonl.zst", j.prefix, hour))
}

func (j *Journal) Append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	hour := j.now().UTC().Format(hourStamp)
	if j.cur == nil || j.cur.hour != hour {
		if j.cur != nil {
			err := j.cur.close()
			j.cur = nil
			if err != nil {
				return err
			}
		}
		seg, err := openSegment(j.path(hour), hour)
		if err != nil {
			return err
		}
		j.cur = seg
	}
	if _, err := j.cur.buf.Write(line); err != nil {
		return err
	}
	return j.cur.buf.Flush()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cur == nil {
		return nil
	}
	err := j.cur.close()
	j.cur = nil
	return err
}

// TickLogger journals one entry per world tick under <world>/events.
type TickLogger struct{ j *Journal }

func NewTickLogger(worldDir string) *TickLogger {
	return &TickLogger{j: NewJournal(filepath.Join(worldDir, "events"), "events")}
}

func (l *TickLogger) WriteTick(v world.TickLogEntry) error { return l.j.Append(v) }
func (l *TickLogger) Close() error                         { return l.j.Close() }

// RitualLogger journals ritual lifecycle records under <world>/rituals.
type RitualLogger struct{ j *Journal }

func NewRitualLogger(worldDir string) *RitualLogger {
	return &RitualLogger{j: NewJournal(filepath.Join(worldDir, "rituals"), "rituals")}
}

func (l *RitualLogger) WriteRitual(v world.RitualLogEntry) error { return l.j.Append(v) }
func (l *RitualLogger) Close() error                             { return l.j.Close() }

// Fanout writes every entry to each sink and reports the first failure.
type Fanout []world.RitualLogger

func (f Fanout) WriteRitual(v world.RitualLogEntry) error {
	var first error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.WriteRitual(v); err != nil && first == nil {
			first = err
		}
	}
	return first
}
