// Package session persists docstring suggestions produced during a review
// session. The store is caller-owned enrichment keyed by file path plus
// qualified name; the extractor and validator never read it.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"
)

var bucketSuggestions = []byte("suggestions")

const keySep = "\x00"

// Suggestion is one generated docstring awaiting human review.
type Suggestion struct {
	FilePath      string    `json:"file_path"`
	QualifiedName string    `json:"qualified_name"` // "func" or "Class.method" or "Class"
	Kind          string    `json:"kind"`           // "function", "method", or "class"
	Style         string    `json:"style"`
	Docstring     string    `json:"docstring"`
	Accepted      bool      `json:"accepted"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store is a bbolt-backed suggestion store.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating as needed) a session store at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create session dir")
		}
	}

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open session db")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSuggestions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(filePath, qualifiedName, style string) []byte {
	return []byte(filePath + keySep + qualifiedName + keySep + style)
}

// Put stores a suggestion, overwriting any previous one for the same file,
// name, and style.
func (s *Store) Put(sug Suggestion) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(sug)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSuggestions).Put(key(sug.FilePath, sug.QualifiedName, sug.Style), data)
	})
}

// Get fetches one suggestion; found is false when absent.
func (s *Store) Get(filePath, qualifiedName, style string) (Suggestion, bool, error) {
	var sug Suggestion
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSuggestions).Get(key(filePath, qualifiedName, style))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &sug)
	})
	return sug, found, err
}

// List returns every suggestion for filePath, or all suggestions when
// filePath is empty.
func (s *Store) List(filePath string) ([]Suggestion, error) {
	suggestions := []Suggestion{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSuggestions).ForEach(func(k, v []byte) error {
			if filePath != "" && !strings.HasPrefix(string(k), filePath+keySep) {
				return nil
			}
			var sug Suggestion
			if err := json.Unmarshal(v, &sug); err != nil {
				return err
			}
			suggestions = append(suggestions, sug)
			return nil
		})
	})
	return suggestions, err
}

// SetAccepted flips the acceptance flag on a stored suggestion.
func (s *Store) SetAccepted(filePath, qualifiedName, style string, accepted bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSuggestions)
		k := key(filePath, qualifiedName, style)
		data := b.Get(k)
		if data == nil {
			return errors.Newf("suggestion not found: %s %s", filePath, qualifiedName)
		}
		var sug Suggestion
		if err := json.Unmarshal(data, &sug); err != nil {
			return err
		}
		sug.Accepted = accepted
		updated, err := json.Marshal(sug)
		if err != nil {
			return err
		}
		return b.Put(k, updated)
	})
}

// Delete removes a suggestion if present.
func (s *Store) Delete(filePath, qualifiedName, style string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSuggestions).Delete(key(filePath, qualifiedName, style))
	})
}
