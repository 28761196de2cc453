package widget

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble/v2"
	"github.com/rs/zerolog/log"
)

// Direction tells whether a stored message came from upstream or was typed locally.
type Direction string

const (
	DirInbound  Direction = "in"
	DirOutbound Direction = "out"
)

// Record is one persisted transcript entry.
type Record struct {
	Dir     Direction `json:"dir"`
	Message Message   `json:"message"`
}

// Transcript persists chat history for one session in a PebbleDB key-value
// store. Keys are the uvarint length of the session id, the id itself and an
// 8-byte big-endian sequence number. The length prefix keeps one session's
// key range free of any other session's keys.
type Transcript struct {
	db     *pebble.DB
	prefix []byte
	mu     sync.Mutex
	next   uint64
}

func OpenTranscript(dir, sessionID string) (*Transcript, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{Logger: pebbleLogger{}})
	if err != nil {
		return nil, err
	}
	t := &Transcript{db: db, prefix: sessionPrefix(sessionID)}
	// Discover next sequence by reading the last key of this session.
	it, err := db.NewIter(t.bounds())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	defer func() { _ = it.Close() }()
	for valid := it.Last(); valid; valid = it.Prev() {
		if seq, ok := t.seq(it.Key()); ok {
			t.next = seq + 1
			break
		}
	}
	return t, nil
}

func sessionPrefix(sessionID string) []byte {
	p := binary.AppendUvarint(nil, uint64(len(sessionID)))
	return append(p, sessionID...)
}

func (t *Transcript) bounds() *pebble.IterOptions {
	return &pebble.IterOptions{LowerBound: t.prefix, UpperBound: upperBound(t.prefix)}
}

// upperBound returns the smallest key greater than every key starting with
// prefix, or nil when there is none.
func upperBound(prefix []byte) []byte {
	upper := append([]byte(nil), prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}

func (t *Transcript) seq(key []byte) (uint64, bool) {
	if len(key) != len(t.prefix)+8 || !bytes.HasPrefix(key, t.prefix) {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(t.prefix):]), true
}

func (t *Transcript) Append(r Record) error {
	if t == nil || t.db == nil {
		return nil
	}
	val, err := json.Marshal(r)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	key := make([]byte, len(t.prefix)+8)
	copy(key, t.prefix)
	binary.BigEndian.PutUint64(key[len(t.prefix):], t.next)
	t.next++
	return t.db.Set(key, val, pebble.Sync)
}

// LoadRecent returns the last limit records of the session in order.
// A limit <= 0 loads everything.
func (t *Transcript) LoadRecent(limit int) ([]Record, error) {
	if t == nil || t.db == nil {
		return nil, nil
	}
	it, err := t.db.NewIter(t.bounds())
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	// Walk backwards from the newest key, then restore order.
	out := make([]Record, 0, 64)
	for it.Last(); it.Valid(); it.Prev() {
		if limit > 0 && len(out) == limit {
			break
		}
		if _, ok := t.seq(it.Key()); !ok {
			continue
		}
		var r Record
		if err := json.Unmarshal(it.Value(), &r); err == nil {
			out = append(out, r)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (t *Transcript) Close() error {
	if t == nil || t.db == nil {
		return nil
	}
	return t.db.Close()
}

// pebbleLogger routes pebble's own messages through zerolog so they do not
// interleave with the terminal prompt.
type pebbleLogger struct{}

func (pebbleLogger) Infof(format string, args ...interface{}) {
	log.Debug().Msgf("[chat] pebble: "+format, args...)
}

func (pebbleLogger) Errorf(format string, args ...interface{}) {
	log.Error().Msgf("[chat] pebble: "+format, args...)
}

func (pebbleLogger) Fatalf(format string, args ...interface{}) {
	log.Fatal().Msgf("[chat] pebble: "+format, args...)
}
