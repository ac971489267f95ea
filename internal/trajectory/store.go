package trajectory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/trajectory/internal/source"
)

// State is the lifecycle state of a Store.
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load_failed"
	default:
		return "uninitialized"
	}
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithThreshold overrides OccurrenceThreshold. Values below 1 are ignored.
func WithThreshold(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.threshold = n
		}
	}
}

// Store owns one normalized record table.
type Store struct {
	logger    *slog.Logger
	threshold int
	locator   string

	state   State
	loadErr *Error

	table   Table
	ids     []ObjectID
	dropped []ObjectID
	digest  string
}

// Open loads src and normalizes it.
//
// Open never fails: when the source is missing or malformed the store enters
// StateLoadFailed, logs the error once, and keeps it for Err and every later
// table-dependent call.
func Open(ctx context.Context, src source.Reader, opts ...Option) *Store {
	s := &Store{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		threshold: OccurrenceThreshold,
		locator:   src.Locator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("source", s.locator)

	defer s.enter("load")()

	m, err := src.Read(ctx)
	if err == nil {
		s.table, err = FromMatrix(m)
	}
	if err != nil {
		s.fail(err)
		return s
	}

	s.normalize()
	return s
}

func (s *Store) normalize() {
	defer s.enter("normalize")()

	raw := len(s.table)
	n := Normalize(s.table, s.threshold)
	s.table, s.ids, s.dropped = n.Table, n.ObjectIDs, n.Dropped
	s.digest = digestTable(s.table)
	s.state = StateLoaded

	s.logger.Debug("table normalized",
		"raw_records", raw,
		"records", len(s.table),
		"objects", len(s.ids),
		"dropped_objects", len(s.dropped),
		"threshold", s.threshold,
	)
}

func (s *Store) fail(err error) {
	code := ErrCodeSourceMalformed
	msg := "source is not an N×4 numeric matrix"
	if errors.Is(err, source.ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		code = ErrCodeSourceNotFound
		msg = fmt.Sprintf("file %s not found or unreadable", s.locator)
	}

	s.state = StateLoadFailed
	s.table = nil
	s.loadErr = &Error{Code: code, Op: "load", Message: msg, Err: err}
	s.logger.Error("load failed", "code", code, "error", err)
}

// enter logs entry to op and returns the matching exit log.
func (s *Store) enter(op string) func() {
	s.logger.Debug("enter", "op", op)
	return func() { s.logger.Debug("exit", "op", op) }
}

// unloaded reports the persisted load error for op.
func (s *Store) unloaded(op string) error {
	if s.loadErr == nil {
		return &Error{Code: ErrCodeSourceNotFound, Op: op, Message: "store was not opened"}
	}
	s.logger.Warn("store not loaded", "op", op, "code", s.loadErr.Code)
	return &Error{Code: s.loadErr.Code, Op: op, Message: "store not loaded", Err: s.loadErr}
}

// Extract returns the records of one object id in table order.
//
// raw may be an integer or a string holding one (see ParseObjectID). An id
// with no records, including one removed by the threshold, yields an active
// empty Subset.
func (s *Store) Extract(raw any) (Subset, error) {
	defer s.enter("extract")()

	if s.state != StateLoaded {
		return Subset{}, s.unloaded("extract")
	}

	id, err := ParseObjectID(raw)
	if err != nil {
		s.logger.Error("extract failed", "error", err)
		return Subset{}, err
	}

	var records Table
	for _, r := range s.table {
		if r.ObjectID == id {
			records = append(records, r)
		}
	}
	s.logger.Debug("subset extracted", "object_id", id, "records", len(records))
	return newSubset(id, records), nil
}

// Reduce applies fn to sub exactly once and returns its result.
//
// sub must come from a successful Extract (NO_ACTIVE_SUBSET otherwise). An
// error returned by fn comes back wrapped as REDUCER_FAILURE; a panic in fn is
// not recovered.
func Reduce[R any](s *Store, sub Subset, fn func(Subset) (R, error)) (R, error) {
	var zero R
	defer s.enter("reduce")()

	if s.state != StateLoaded {
		return zero, s.unloaded("reduce")
	}
	if !sub.Active() {
		err := NewNoActiveSubsetError("reduce")
		s.logger.Error("reduce failed", "error", err)
		return zero, err
	}
	if fn == nil {
		return zero, &Error{Code: ErrCodeReducerFailure, Op: "reduce", Message: "nil reduction"}
	}

	out, err := fn(sub)
	if err != nil {
		return zero, &Error{
			Code:    ErrCodeReducerFailure,
			Op:      "reduce",
			Message: fmt.Sprintf("reduction over object_id %d failed", sub.ObjectID()),
			Err:     err,
		}
	}
	return out, nil
}

// State returns the lifecycle state.
func (s *Store) State() State {
	return s.state
}

// Err returns the persisted load error, or nil when the store is loaded.
func (s *Store) Err() error {
	if s.loadErr == nil {
		return nil
	}
	return s.loadErr
}

// Locator returns the source locator the store was opened with.
func (s *Store) Locator() string {
	return s.locator
}

// Threshold returns the occurrence threshold applied at load.
func (s *Store) Threshold() int {
	return s.threshold
}

// Len returns the number of normalized records.
func (s *Store) Len() int {
	return len(s.table)
}

// Table returns a copy of the normalized table.
func (s *Store) Table() Table {
	return s.table.Clone()
}

// ObjectIDs returns the surviving object ids in ascending order.
func (s *Store) ObjectIDs() []ObjectID {
	return append([]ObjectID(nil), s.ids...)
}

// DroppedIDs returns the ids removed by the threshold in ascending order.
func (s *Store) DroppedIDs() []ObjectID {
	return append([]ObjectID(nil), s.dropped...)
}

// TimeRange returns the first and last TimeIndex. ok is false for an empty
// or unloaded table.
func (s *Store) TimeRange() (first, last float64, ok bool) {
	if len(s.table) == 0 {
		return 0, 0, false
	}
	return s.table[0].TimeIndex, s.table[len(s.table)-1].TimeIndex, true
}

// Digest returns the content digest of the normalized table, or "" when the
// store is not loaded.
func (s *Store) Digest() string {
	return s.digest
}
