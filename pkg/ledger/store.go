package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// Store is the record store backed by a single workbook file. It keeps no
// state between calls besides the file itself; every mutation is a locked
// read-modify-write that replaces the file atomically.
type Store struct {
	path      string
	exportDir string
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
	fw        fileWriter
}

// Option configures a Store.
type Option func(*Store)

// WithLocation sets the location used to read and write timestamps.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the clock used for CreatedAt and default export names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for debug output. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExportDir sets the directory for exports without an explicit destination.
// Defaults to the directory of the workbook.
func WithExportDir(dir string) Option {
	return func(s *Store) {
		s.exportDir = dir
	}
}

// NewStore creates a Store for the workbook at path. It does not touch the
// filesystem; call Initialize to create the file.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		loc:    time.Local,
		now:    time.Now,
		logger: slog.Default(),
		fw:     defaultFileWriter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the workbook path.
func (s *Store) Path() string {
	return s.path
}

// Initialize ensures the workbook exists. An absent file is created with the
// header row and no records. Calling it again is a no-op.
func (s *Store) Initialize() error {
	unlock, err := lockPath(s.path)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to stat %s: %w", ErrStorage, s.path, err)
	}

	if err := s.write(nil); err != nil {
		return err
	}
	s.logger.Debug("Initialized ledger", "path", s.path)
	return nil
}

// Add validates req, assigns the next ID (largest existing ID plus one),
// stamps CreatedAt and rewrites the workbook with the new record appended.
func (s *Store) Add(req AddRequest) (Record, error) {
	if err := req.Validate(); err != nil {
		return Record{}, err
	}

	unlock, err := lockPath(s.path)
	if err != nil {
		return Record{}, err
	}
	defer unlock()

	records, err := s.load()
	if err != nil {
		return Record{}, err
	}

	nextID := 1
	for _, r := range records {
		if r.ID >= nextID {
			nextID = r.ID + 1
		}
	}

	rec := Record{
		ID:         nextID,
		Kind:       req.Kind,
		Amount:     req.Amount,
		Category:   req.Category,
		OccurredAt: req.OccurredAt.In(s.loc).Truncate(time.Second),
		Note:       req.Note,
		CreatedAt:  s.now().In(s.loc).Truncate(time.Second),
	}

	if err := s.write(append(records, rec)); err != nil {
		return Record{}, err
	}
	s.logger.Debug("Added record", "id", rec.ID, "kind", rec.Kind, "amount", rec.Amount.String())
	return rec, nil
}

// ListAll returns every record in on-disk row order. A missing file yields
// an empty slice.
func (s *Store) ListAll() ([]Record, error) {
	return s.load()
}

// Delete removes the record at the zero-based position index of ListAll and
// renumbers the remaining records 1..N-1 in row order.
func (s *Store) Delete(index int) error {
	unlock, err := lockPath(s.path)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	return s.deleteAt(records, index)
}

// DeleteByID removes the record whose ID is id, with the same renumbering
// as Delete.
func (s *Store) DeleteByID(id int) error {
	unlock, err := lockPath(s.path)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for i, r := range records {
		if r.ID == id {
			return s.deleteAt(records, i)
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (s *Store) deleteAt(records []Record, index int) error {
	if index < 0 || index >= len(records) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(records))
	}

	removed := records[index]
	kept := make([]Record, 0, len(records)-1)
	kept = append(kept, records[:index]...)
	kept = append(kept, records[index+1:]...)
	for i := range kept {
		kept[i].ID = i + 1
	}

	if err := s.write(kept); err != nil {
		return err
	}
	s.logger.Debug("Deleted record", "index", index, "id", removed.ID, "remaining", len(kept))
	return nil
}

// ClearAll rewrites the workbook with no records.
func (s *Store) ClearAll() error {
	unlock, err := lockPath(s.path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.write(nil); err != nil {
		return err
	}
	s.logger.Debug("Cleared ledger", "path", s.path)
	return nil
}

// load reads the whole workbook. The file is read into memory first so a
// concurrent rename never leaves a half-read table.
func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrStorage, s.path, err)
	}
	return decodeWorkbook(bytes.NewReader(data), s.loc)
}

func (s *Store) write(records []Record) error {
	return s.fw.replace(s.path, func(w io.Writer) error {
		return encodeWorkbook(w, records)
	})
}
