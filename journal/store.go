package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/rustyeddy/fxjournal/internal/logger"
	"github.com/rustyeddy/fxjournal/pkg/id"
)

// DefaultKey is the blob key the journal lives under.
const DefaultKey = "trading_journal_data"

var (
	ErrNotFound        = errors.New("trade not found")
	ErrDuplicateID     = errors.New("duplicate trade id")
	ErrAmbiguousID     = errors.New("trade id is ambiguous")
	ErrIndexOutOfRange = errors.New("trade index out of range")
	ErrPersist         = errors.New("persist trades")
)

// Store owns the ordered trade collection. Order is insertion order; every
// trade carries a stable ID assigned on Add, ReplaceAll or Load.
//
// Mutators only change memory. Callers are expected to call Persist after
// each change.
type Store struct {
	mu     sync.RWMutex
	blob   Blob
	key    string
	log    *slog.Logger
	trades []Trade

	// records from the blob that could not be decoded, written back as-is
	undecoded []json.RawMessage
}

func NewStore(blob Blob, key string, log *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Store{blob: blob, key: key, log: log}
}

// Load replaces the in-memory collection with what the blob holds. A
// missing key is an empty journal. A payload that is not a JSON array is
// discarded with a warning; the only error returned is a failed read.
func (s *Store) Load() ([]Trade, error) {
	data, err := s.blob.Get(s.key)
	if err != nil && !errors.Is(err, ErrBlobNotFound) {
		return nil, fmt.Errorf("load trades: %w", err)
	}

	trades, undecoded, derr := s.decode(data)
	if derr != nil {
		s.log.Warn("journal data unreadable, starting empty", "key", s.key, "err", derr)
		trades, undecoded = nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = s.withIDs(trades)
	s.undecoded = undecoded
	s.log.Debug("journal loaded", "key", s.key, "trades", len(s.trades))
	return slices.Clone(s.trades), nil
}

func (s *Store) decode(data []byte) ([]Trade, []json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil, nil
	}
	if data[0] != '[' {
		return nil, nil, errors.New("payload is not an array")
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, err
	}

	var (
		trades    []Trade
		undecoded []json.RawMessage
	)
	for i, raw := range raws {
		var t Trade
		if err := json.Unmarshal(raw, &t); err != nil {
			s.log.Warn("skipping unreadable trade record", "index", i, "err", err)
			undecoded = append(undecoded, raw)
			continue
		}
		trades = append(trades, t)
	}
	return trades, undecoded, nil
}

// Persist writes the whole collection to the blob. On failure the
// in-memory collection is untouched and the error wraps ErrPersist.
func (s *Store) Persist() error {
	s.mu.RLock()
	data, err := s.encode()
	n := len(s.trades)
	s.mu.RUnlock()

	if err == nil {
		err = s.blob.Put(s.key, data)
	}
	if err != nil {
		s.log.Warn("could not save journal, changes kept in memory only", "key", s.key, "err", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.log.Debug("journal saved", "key", s.key, "trades", n)
	return nil
}

func (s *Store) encode() ([]byte, error) {
	if len(s.undecoded) == 0 {
		trades := s.trades
		if trades == nil {
			trades = []Trade{}
		}
		return json.Marshal(trades)
	}

	out := make([]json.RawMessage, 0, len(s.trades)+len(s.undecoded))
	for _, t := range s.trades {
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	out = append(out, s.undecoded...)
	return json.Marshal(out)
}

// List returns a copy of every trade in insertion order.
func (s *Store) List() []Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.trades)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trades)
}

func (s *Store) Get(tradeID string) (Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(tradeID)
	if i < 0 {
		return Trade{}, fmt.Errorf("%w: %q", ErrNotFound, tradeID)
	}
	return s.trades[i], nil
}

// Add appends t. Profit must already be set. An empty ID is filled in.
func (s *Store) Add(t Trade) (Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = id.New()
	} else if s.indexOf(t.ID) >= 0 {
		return Trade{}, fmt.Errorf("%w: %q", ErrDuplicateID, t.ID)
	}
	s.trades = append(s.trades, t)
	return t, nil
}

// Update replaces the trade with the given ID. Unknown fields of the old
// record carry over when t has none of its own.
func (s *Store) Update(tradeID string, t Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(tradeID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, tradeID)
	}
	s.replace(i, t)
	return nil
}

func (s *Store) Remove(tradeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(tradeID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, tradeID)
	}
	s.trades = slices.Delete(s.trades, i, i+1)
	return nil
}

// UpdateAt replaces the trade at position index of List.
func (s *Store) UpdateAt(index int, t Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.replace(index, t)
	return nil
}

// RemoveAt deletes the trade at position index of List.
func (s *Store) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.trades = slices.Delete(s.trades, index, index+1)
	return nil
}

// ReplaceAll swaps in a whole new collection, as an import does.
func (s *Store) ReplaceAll(trades []Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = s.withIDs(slices.Clone(trades))
	s.undecoded = nil
}

func (s *Store) replace(i int, t Trade) {
	old := s.trades[i]
	t.ID = old.ID
	if t.Extra == nil {
		t.Extra = old.Extra
	}
	s.trades[i] = t
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.trades) {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, len(s.trades))
	}
	return nil
}

// MinShortID is the shortest ID suffix accepted in place of a full ID.
const MinShortID = 4

// Resolve returns the full ID for arg: either an exact ID or a unique
// case-insensitive suffix of at least MinShortID characters.
func (s *Store) Resolve(arg string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.indexOf(arg) >= 0 {
		return arg, nil
	}

	var match string
	if len(arg) >= MinShortID {
		for _, t := range s.trades {
			if !strings.HasSuffix(strings.ToUpper(t.ID), strings.ToUpper(arg)) {
				continue
			}
			if match != "" {
				return "", fmt.Errorf("%w: %q", ErrAmbiguousID, arg)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, arg)
	}
	return match, nil
}

func (s *Store) indexOf(tradeID string) int {
	return slices.IndexFunc(s.trades, func(t Trade) bool { return t.ID == tradeID })
}

// withIDs gives every trade lacking one, or repeating an earlier one, a
// fresh ID.
func (s *Store) withIDs(trades []Trade) []Trade {
	seen := make(map[string]bool, len(trades))
	for i := range trades {
		if trades[i].ID == "" || seen[trades[i].ID] {
			trades[i].ID = id.New()
		}
		seen[trades[i].ID] = true
	}
	return trades
}
