package archive

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/pkg/errors"
	"github.com/iamNilotpal/dataselect/pkg/filesys"
)

// stream is one open archive output file plus the MRU-list linkage and
// bookkeeping the multiplexer needs to evict it when idle. Grounded on
// Sumatoshi-tech-codefang/pkg/alg/lru/cache.go's entry struct — a
// doubly-linked list node alongside a map lookup — simplified here to a
// single-threaded, time-based (not count-based) "most recently written"
// ordering, since SPEC_FULL.md §5 mandates sequential execution and there
// is no concurrent Get/Put to guard against.
type stream struct {
	key   string
	path  string
	file  *os.File
	first Values

	lastWrite time.Time
	prev, next *stream
}

// Mux is the Archive multiplexer (dsarchive.c's ds_streamproc /
// ds_closeidle, SPEC_FULL.md §5): it owns every open stream for one
// Template, keeping at most maxOpen concurrently open, evicting the
// idlest first once a new stream is needed and the cap is reached.
type Mux struct {
	tmpl *Template
	log  *zap.SugaredLogger

	streams map[string]*stream
	mru     *stream // most recently written
	lru     *stream // least recently written

	maxOpen      int
	idleTimeout  time.Duration
}

// NewMux builds a Mux for one archive sink.
func NewMux(tmpl *Template, maxOpen int, idleTimeout time.Duration, log *zap.SugaredLogger) *Mux {
	return &Mux{
		tmpl:        tmpl,
		log:         log,
		streams:     make(map[string]*stream),
		maxOpen:     maxOpen,
		idleTimeout: idleTimeout,
	}
}

// Write resolves v's destination stream (opening or creating it as
// needed, evicting idle streams first if the multiplexer is at
// capacity), appends data, and records v as that stream's "first record"
// if it was just created.
func (m *Mux) Write(v Values, data []byte) error {
	key, err := m.tmpl.Key(v)
	if err != nil {
		return err
	}

	s, ok := m.streams[key]
	if !ok {
		s, err = m.open(key, v)
		if err != nil {
			return err
		}
	}

	if _, err := s.file.Write(data); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(s.path), s.path, 0)
	}

	s.lastWrite = time.Now()
	m.touch(s)
	return nil
}

// open resolves the path for key's first record, ensures its parent
// directory exists, opens it for append, links it into the MRU list, and
// evicts idle streams first if at capacity.
func (m *Mux) open(key string, v Values) (*stream, error) {
	if len(m.streams) >= m.maxOpen {
		if err := m.evictForCapacity(); err != nil {
			return nil, err
		}
	}

	path, err := m.tmpl.Render(v, v)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := filesys.CreateDir(dir, 0755, true); err != nil {
			return nil, errors.NewArchiveError(err, errors.ErrorCodeArchiveTemplate, "failed to create archive directory").
				WithTemplate(m.tmpl.String()).WithPath(dir)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	s := &stream{key: key, path: path, file: f, first: v, lastWrite: time.Now()}
	m.streams[key] = s
	m.pushFront(s)

	m.log.Debugw("opened archive stream", "path", path, "key", key)
	return s, nil
}

// evictForCapacity closes streams starting from the LRU end, relaxing the
// idle threshold progressively (halving it toward zero) until at least
// one descriptor is freed — ds_closeidle()'s behavior, per SPEC_FULL.md
// §5.
func (m *Mux) evictForCapacity() error {
	threshold := m.idleTimeout
	now := time.Now()

	for {
		closed := m.closeIdleOlderThan(now, threshold)
		if closed > 0 {
			return nil
		}
		if threshold <= 0 {
			break
		}
		threshold /= 2
	}

	// Nothing was idle even at threshold zero: every open stream was
	// just written to. Force-close the single least-recently-written one.
	if m.lru != nil {
		m.closeStream(m.lru)
		return nil
	}

	return errors.NewResourceError(nil, "archive multiplexer could not free a file descriptor").
		WithResource("fd").WithLimits(int64(len(m.streams)+1), int64(m.maxOpen))
}

// closeIdleOlderThan closes every stream whose lastWrite is older than
// threshold before now, returning how many were closed.
func (m *Mux) closeIdleOlderThan(now time.Time, threshold time.Duration) int {
	closed := 0
	for s := m.lru; s != nil; {
		prev := s.prev
		if now.Sub(s.lastWrite) >= threshold {
			m.closeStream(s)
			closed++
		}
		s = prev
	}
	return closed
}

// closeStream closes a stream's file handle, unlinks it from the MRU
// list, and removes it from the lookup map.
func (m *Mux) closeStream(s *stream) {
	_ = s.file.Close()
	m.unlink(s)
	delete(m.streams, s.key)
}

// CloseAll flushes and closes every open stream, used at the end of a
// run.
func (m *Mux) CloseAll() error {
	var firstErr error
	for key, s := range m.streams {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = errors.ClassifySyncError(err, filepath.Base(s.path), s.path, 0)
		}
		delete(m.streams, key)
	}
	m.mru, m.lru = nil, nil
	return firstErr
}

func (m *Mux) pushFront(s *stream) {
	s.prev, s.next = nil, m.mru
	if m.mru != nil {
		m.mru.prev = s
	}
	m.mru = s
	if m.lru == nil {
		m.lru = s
	}
}

func (m *Mux) unlink(s *stream) {
	if s.prev != nil {
		s.prev.next = s.next
	} else {
		m.mru = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	} else {
		m.lru = s.prev
	}
	s.prev, s.next = nil, nil
}

// touch moves s to the front of the MRU list after a write.
func (m *Mux) touch(s *stream) {
	if m.mru == s {
		return
	}
	m.unlink(s)
	m.pushFront(s)
}
