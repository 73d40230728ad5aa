// Package covers downloads and caches book cover images. Covers are
// fetched best-effort after a save and served from a local Badger
// store, so the catalog UI never depends on the provider CDNs.
package covers

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	dataKeyPrefix = "cover:data:"
	metaKeyPrefix = "cover:meta:"
)

// Meta describes a stored cover.
type Meta struct {
	ContentType string    `json:"content_type"`
	BlurHash    string    `json:"blur_hash,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Size        int64     `json:"size"`
	Source      string    `json:"source,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Cover is image bytes plus metadata.
type Cover struct {
	Meta
	Data []byte
}

// Store is a Badger-backed cover cache keyed by ISBN.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cover store: %w", err)
	}

	logger.Info("cover store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a cover, replacing any previous one for the ISBN.
func (s *Store) Save(isbn string, cover *Cover) error {
	if isbn == "" {
		return errors.New("isbn cannot be empty")
	}
	if len(cover.Data) == 0 {
		return errors.New("cover data cannot be empty")
	}

	meta := cover.Meta
	meta.Size = int64(len(cover.Data))
	metaJSON, err := json.Marshal(meta, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("marshal cover meta: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(dataKeyPrefix+isbn), cover.Data); err != nil {
			return err
		}
		return txn.Set([]byte(metaKeyPrefix+isbn), metaJSON)
	})
}

// Get returns the cached cover, or (nil, nil) when none is stored.
func (s *Store) Get(isbn string) (*Cover, error) {
	var cover Cover
	err := s.db.View(func(txn *badger.Txn) error {
		metaItem, err := txn.Get([]byte(metaKeyPrefix + isbn))
		if err != nil {
			return err
		}
		if err := metaItem.Value(func(val []byte) error {
			return json.Unmarshal(val, &cover.Meta)
		}); err != nil {
			return fmt.Errorf("decode cover meta: %w", err)
		}

		dataItem, err := txn.Get([]byte(dataKeyPrefix + isbn))
		if err != nil {
			return err
		}
		cover.Data, err = dataItem.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return &cover, nil
}

// Exists reports whether a cover is stored for the ISBN.
func (s *Store) Exists(isbn string) bool {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(metaKeyPrefix + isbn))
		return err
	})
	return err == nil
}

// Delete removes a stored cover. Deleting a missing cover is not an
// error.
func (s *Store) Delete(isbn string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(dataKeyPrefix + isbn)); err != nil {
			return err
		}
		return txn.Delete([]byte(metaKeyPrefix + isbn))
	})
}
