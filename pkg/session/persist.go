package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/naveenspark/uitam/internal/storage"
	"github.com/naveenspark/uitam/pkg/domain"
)

// DefaultStorageKey is the namespaced slot holding the persisted session.
const DefaultStorageKey = "auth-storage"

// Record is the persisted form of a session. Only Token is authoritative;
// User and IsAuthenticated are cache hints that are always re-validated.
type Record struct {
	User            *domain.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Persister mirrors sessions into a storage.Storage slot.
type Persister struct {
	storage storage.Storage
	key     string
}

// NewPersister stores sessions under key, or DefaultStorageKey if key is empty.
func NewPersister(s storage.Storage, key string) *Persister {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Persister{storage: s, key: key}
}

// Load returns the persisted record. A missing slot yields a zero Record.
// An unreadable payload or backing document is removed and also yields a
// zero Record.
func (p *Persister) Load(ctx context.Context) (Record, error) {
	data, err := p.storage.Get(ctx, p.key)
	if errors.Is(err, storage.ErrNotFound) {
		return Record{}, nil
	}
	if errors.Is(err, storage.ErrCorrupt) {
		if rmErr := p.storage.Remove(ctx, p.key); rmErr != nil {
			return Record{}, fmt.Errorf("session.Load: remove corrupt storage: %w", rmErr)
		}
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("session.Load: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		if rmErr := p.storage.Remove(ctx, p.key); rmErr != nil {
			return Record{}, fmt.Errorf("session.Load: remove corrupt record: %w", rmErr)
		}
		return Record{}, nil
	}
	return rec, nil
}

// Save writes s. Sessions that are not authenticated are not saved.
func (p *Persister) Save(ctx context.Context, s Session) error {
	if !s.IsAuthenticated() {
		return nil
	}
	data, err := json.Marshal(Record{User: s.User, Token: s.Token, IsAuthenticated: true})
	if err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	if err := p.storage.Set(ctx, p.key, data); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	return nil
}

// Clear removes the persisted session.
func (p *Persister) Clear(ctx context.Context) error {
	if err := p.storage.Remove(ctx, p.key); err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// Sync makes storage match s: authenticated sessions are saved, unauthenticated
// ones cleared, transient states left alone.
func (p *Persister) Sync(ctx context.Context, s Session) error {
	switch s.State {
	case Authenticated:
		return p.Save(ctx, s)
	case Unauthenticated:
		return p.Clear(ctx)
	default:
		return nil
	}
}
