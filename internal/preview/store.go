// Package preview hands a pending TripForm from the submission flow to the
// preview flow. Each handoff is keyed by its own opaque token, so two flows
// in progress at once never see each other's form. Entries live in memory
// only and expire after a TTL if nobody clears them.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/id"
)

const keyPrefix = "preview:"

// Store holds pending forms keyed by token.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open creates an in-memory Store whose entries expire after ttl.
// A ttl of zero keeps entries until they are cleared or consumed.
func Open(ttl time.Duration, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("preview.Open: %w", err)
	}
	return &Store{db: db, ttl: ttl, logger: logger}, nil
}

// Close releases the in-memory store. Pending forms are lost.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a copy of form and returns the token that retrieves it.
func (s *Store) Put(_ context.Context, form domain.TripForm) (string, error) {
	token, err := id.Generate(id.PrefixPreview)
	if err != nil {
		return "", fmt.Errorf("preview.Store.Put: %w", err)
	}
	if err := s.write(token, form, false); err != nil {
		return "", fmt.Errorf("preview.Store.Put: %w", err)
	}
	s.logger.Debug("preview form stored", "token", token)
	return token, nil
}

// Replace overwrites the form held under an existing token. The existence
// check and the write share one transaction, so a form consumed concurrently
// is never brought back.
// Returns domain.ErrNotFound when the token is unknown, expired, or consumed.
func (s *Store) Replace(_ context.Context, token string, form domain.TripForm) error {
	if err := s.write(token, form, true); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) || errors.Is(err, badger.ErrConflict) {
			return fmt.Errorf("preview.Store.Replace: token %q: %w", token, domain.ErrNotFound)
		}
		return fmt.Errorf("preview.Store.Replace: %w", err)
	}
	return nil
}

func (s *Store) write(token string, form domain.TripForm, mustExist bool) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if mustExist {
			if _, err := txn.Get(key(token)); err != nil {
				return err
			}
		}
		e := badger.NewEntry(key(token), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Get returns the form stored under token. When consume is true the entry is
// removed in the same transaction, so a token is delivered at most once even
// to concurrent readers.
//
// Returns domain.ErrNotFound when the token is unknown, expired, or already
// consumed.
func (s *Store) Get(_ context.Context, token string, consume bool) (domain.TripForm, error) {
	var form domain.TripForm
	read := func(txn *badger.Txn) error {
		item, err := txn.Get(key(token))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &form)
		}); err != nil {
			return err
		}
		if consume {
			return txn.Delete(key(token))
		}
		return nil
	}

	var err error
	if consume {
		err = s.db.Update(read)
	} else {
		err = s.db.View(read)
	}
	if err != nil {
		// A conflicting consume means another reader took the form first.
		if errors.Is(err, badger.ErrKeyNotFound) || errors.Is(err, badger.ErrConflict) {
			return domain.TripForm{}, fmt.Errorf("preview.Store.Get: token %q: %w", token, domain.ErrNotFound)
		}
		return domain.TripForm{}, fmt.Errorf("preview.Store.Get: %w", err)
	}
	return form, nil
}

// Clear removes the form stored under token. Clearing an unknown token is
// not an error.
func (s *Store) Clear(_ context.Context, token string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(token))
	})
	if err != nil {
		return fmt.Errorf("preview.Store.Clear: %w", err)
	}
	return nil
}

func key(token string) []byte {
	return []byte(keyPrefix + token)
}
