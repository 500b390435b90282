// Package history persists completed transcriptions with size-bounded
// retention.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"go.scrib.dev/scrib/internal/types"
)

// DefaultLimit is the retention cap applied when none is configured.
const DefaultLimit = 200

var recordPrefix = []byte("rec:")

// Store is a badger-backed history of transcription records. Records are
// never mutated; they are removed only by Delete or retention trimming
// (oldest first beyond the limit).
type Store struct {
	db    *badger.DB
	limit int

	// detect tags a record with its language when the record carries none.
	// Optional.
	detect func(text string) string
}

// Option configures a Store.
type Option func(*Store)

// WithLimit sets the retention cap.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLanguageDetector sets the language tagging function.
func WithLanguageDetector(detect func(text string) string) Option {
	return func(s *Store) { s.detect = detect }
}

// Open opens (or creates) the history database at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	s := &Store{db: db, limit: DefaultLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// recordKey orders records chronologically: an ascending iteration visits
// oldest first, which is the trimming order.
func recordKey(createdAt time.Time, id string) []byte {
	return fmt.Appendf(nil, "rec:%020d:%s", createdAt.UnixNano(), id)
}

// Save persists one record and applies retention trimming.
func (s *Store) Save(ctx context.Context, rec types.TranscriptionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Language == "" && s.detect != nil {
		rec.Language = s.detect(rec.Text)
	}

	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.CreatedAt, rec.ID), val)
	})
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	if err := s.trim(); err != nil {
		// Trimming failure must not fail the save.
		slog.Warn("trim history", "error", err)
	}
	return ctx.Err()
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]types.TranscriptionRecord, error) {
	var records []types.TranscriptionRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts just past the record prefix.
		seek := append(append([]byte{}, recordPrefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(recordPrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec types.TranscriptionRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("unmarshal record: %w", err)
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, ctx.Err()
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	key, err := s.findKey(id)
	if err != nil {
		return err
	}
	if key == nil {
		return fmt.Errorf("record not found: %s", id)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return ctx.Err()
}

// Clear removes all records.
func (s *Store) Clear(ctx context.Context) error {
	keys, err := s.allKeys()
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return ctx.Err()
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	keys, err := s.allKeys()
	return len(keys), err
}

// trim deletes the oldest records beyond the retention limit.
func (s *Store) trim() error {
	keys, err := s.allKeys()
	if err != nil {
		return err
	}
	if len(keys) <= s.limit {
		return nil
	}

	excess := keys[:len(keys)-s.limit] // ascending order, oldest first
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range excess {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// allKeys returns all record keys in ascending (oldest first) order.
func (s *Store) allKeys() ([][]byte, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(recordPrefix); it.ValidForPrefix(recordPrefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// findKey locates the key holding the record with the given id.
func (s *Store) findKey(id string) ([]byte, error) {
	suffix := []byte(":" + id)
	var found []byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(recordPrefix); it.ValidForPrefix(recordPrefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if len(key) >= len(suffix) && string(key[len(key)-len(suffix):]) == string(suffix) {
				found = key
				return nil
			}
		}
		return nil
	})
	return found, err
}
