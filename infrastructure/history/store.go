// Package history keeps a ledger of finished conversion runs in a bbolt file.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vidtowav/domain/conversion"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const runsBucket = "runs"

// ErrEmpty is returned by Last when no run has been recorded
var ErrEmpty = errors.New("no runs recorded")

// Record is one finished run
type Record struct {
	ID              uint64        `json:"id"`
	Started         time.Time     `json:"started"`
	Elapsed         time.Duration `json:"elapsed"`
	SourceRoot      string        `json:"source_root"`
	DestinationRoot string        `json:"destination_root,omitempty"`
	Format          string        `json:"format"`
	Quality         int           `json:"quality"`
	Total           int           `json:"total"`
	Converted       int           `json:"converted"`
	Failed          int           `json:"failed"`
	Skipped         int           `json:"skipped"`
	Stopped         bool          `json:"stopped"`
	Outputs         []string      `json:"outputs,omitempty"`
}

// NewRecord captures a request and its summary
func NewRecord(req *conversion.Request, s conversion.Summary) Record {
	return Record{
		Started:         s.Started,
		Elapsed:         s.Elapsed,
		SourceRoot:      req.SourceRoot,
		DestinationRoot: req.DestinationRoot,
		Format:          string(req.Format),
		Quality:         req.Quality,
		Total:           s.Total,
		Converted:       s.Converted,
		Failed:          s.Failed,
		Skipped:         s.Skipped,
		Stopped:         s.Stopped,
		Outputs:         s.ConvertedPaths(),
	}
}

// Store persists run records
type Store struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// Open opens or creates the history database at path
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}

	return &Store{db: db, logger: logger.Named("history")}, nil
}

// Append stores rec under the next sequence number and returns it with ID set
func (s *Store) Append(rec Record) (Record, error) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		rec.ID = id

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(key(id), data)
	})
	if err != nil {
		return rec, fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Debug("run recorded", zap.Uint64("id", rec.ID), zap.Int("converted", rec.Converted))
	return rec, nil
}

// List returns up to limit records, newest first. A limit of 0 returns all.
func (s *Store) List(limit int) ([]Record, error) {
	var out []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(runsBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				s.logger.Warn("skipping unreadable run record", zap.Binary("key", k), zap.Error(err))
				continue
			}
			out = append(out, rec)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return out, nil
}

// Last returns the most recent record
func (s *Store) Last() (Record, error) {
	recs, err := s.List(1)
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, ErrEmpty
	}
	return recs[0], nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func key(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}
