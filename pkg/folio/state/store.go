// Package state persists what the reader must remember across power
// cycles: the last opened book and the reading position in every book.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketApp      = "app"
	bucketProgress = "progress"

	keyLastBook = "last_book"
)

var (
	// ErrNoLastBook is returned by LastBook when no book has been opened yet.
	ErrNoLastBook = errors.New("no last book")

	// ErrNoProgress is returned by Progress for a book never read.
	ErrNoProgress = errors.New("no progress for book")
)

// Progress is a reading position.
type Progress struct {
	SpineIndex int
	Page       uint32
	Percent    int
}

// Store is a bbolt backed state store.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the state database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketApp, bucketProgress} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize state: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LastBook returns the path of the book opened most recently.
func (s *Store) LastBook() (string, error) {
	var path string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketApp)).Get([]byte(keyLastBook))
		if len(v) == 0 {
			return ErrNoLastBook
		}
		path = string(v)
		return nil
	})
	return path, err
}

func (s *Store) SetLastBook(path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketApp)).Put([]byte(keyLastBook), []byte(path))
	})
}

// ClearLastBook forgets the last book, so the next boot lands on the home
// screen. Recovery uses it when a book keeps crashing the reader.
func (s *Store) ClearLastBook() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketApp)).Delete([]byte(keyLastBook))
	})
}

// Progress returns the saved position in book.
func (s *Store) Progress(book string) (Progress, error) {
	var p Progress
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketProgress)).Get([]byte(book))
		if v == nil {
			return ErrNoProgress
		}
		var err error
		p, err = unmarshalProgress(v)
		return err
	})
	return p, err
}

func (s *Store) SaveProgress(book string, p Progress) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketProgress)).Put([]byte(book), marshalProgress(p))
	})
}

// Books lists every book with a saved position, in path order.
func (s *Store) Books() ([]string, error) {
	var books []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketProgress)).ForEach(func(k, _ []byte) error {
			books = append(books, string(k))
			return nil
		})
	})
	return books, err
}

const progressSize = 12

func marshalProgress(p Progress) []byte {
	b := make([]byte, progressSize)
	binary.BigEndian.PutUint32(b[0:], uint32(p.SpineIndex))
	binary.BigEndian.PutUint32(b[4:], p.Page)
	binary.BigEndian.PutUint32(b[8:], uint32(p.Percent))
	return b
}

func unmarshalProgress(b []byte) (Progress, error) {
	if len(b) != progressSize {
		return Progress{}, fmt.Errorf("corrupt progress record of %d bytes", len(b))
	}
	return Progress{
		SpineIndex: int(binary.BigEndian.Uint32(b[0:])),
		Page:       binary.BigEndian.Uint32(b[4:]),
		Percent:    int(binary.BigEndian.Uint32(b[8:])),
	}, nil
}
