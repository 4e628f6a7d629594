package storage

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sandeepkv93/daytrack/internal/clock"
	"github.com/sandeepkv93/daytrack/internal/model"
)

// ErrNoState is returned by a BlobStore when nothing has been persisted yet.
var ErrNoState = errors.New("storage: no persisted state")

// BlobStore is the persistence transport: the store only needs to read and
// write one opaque state blob.
type BlobStore interface {
	ReadBlob() ([]byte, error)
	WriteBlob(data []byte) error
}

// quarantiner is implemented by blob stores that can move an unreadable blob
// aside so a fresh start does not silently destroy it.
type quarantiner interface {
	Quarantine() error
}

// Store loads and saves the Day through a BlobStore.
type Store struct {
	blobs  BlobStore
	clk    clock.Clock
	logger *zap.Logger
}

func NewStore(blobs BlobStore, clk clock.Clock, logger *zap.Logger) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{blobs: blobs, clk: clk, logger: logger}
}

// Load reads the persisted day. It fails soft: no blob, a blob that cannot be
// decoded, or a decoded day that violates the model invariants (two active
// tasks, a bad status) yields a fresh empty day labeled with the current day.
// The offending blob is quarantined first when the transport supports it.
func (s *Store) Load() (model.Day, error) {
	data, err := s.blobs.ReadBlob()
	if errors.Is(err, ErrNoState) {
		return model.NewDay(model.DayLabel(s.clk.Now())), nil
	}
	if err != nil {
		return model.Day{}, fmt.Errorf("storage: read state: %w", err)
	}

	day, err := DecodeDay(data)
	if err != nil {
		return s.startFresh("persisted state unreadable, starting fresh", err), nil
	}
	if err := day.Validate(); err != nil {
		return s.startFresh("persisted state violates invariants, starting fresh", err), nil
	}
	return day, nil
}

func (s *Store) startFresh(reason string, cause error) model.Day {
	s.logger.Warn(reason, zap.Error(cause))
	if q, ok := s.blobs.(quarantiner); ok {
		if qerr := q.Quarantine(); qerr != nil {
			s.logger.Warn("quarantine failed", zap.Error(qerr))
		}
	}
	return model.NewDay(model.DayLabel(s.clk.Now()))
}

// Save persists the whole day synchronously.
func (s *Store) Save(day model.Day) error {
	data, err := EncodeDay(day)
	if err != nil {
		return fmt.Errorf("storage: encode state: %w", err)
	}
	if err := s.blobs.WriteBlob(data); err != nil {
		return fmt.Errorf("storage: write state: %w", err)
	}
	return nil
}
