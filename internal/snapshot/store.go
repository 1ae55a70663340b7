package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Source tells where a loaded snapshot came from
type Source int

const (
	SourceDefaults Source = iota
	SourcePrimary
	SourceBackup
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceBackup:
		return "backup"
	}
	return "defaults"
}

// ErrNotFound is returned by a backend that holds no save
var ErrNotFound = errors.New("snapshot not found")

// Store persists snapshots.
//
// Load merges the stored snapshot onto base. When the primary save is
// unreadable it falls back to the backup, and when both fail it returns a
// copy of base with SourceDefaults and the joined errors. A missing save is
// not an error.
type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context, base *Snapshot) (*Snapshot, Source, error)
	Delete(ctx context.Context) error
}

// loadWithFallback decodes the primary document, then the backup
func loadWithFallback(codec Codec, base *Snapshot, primary, backup func() ([]byte, error)) (*Snapshot, Source, error) {
	var errs []error
	for _, candidate := range []struct {
		read   func() ([]byte, error)
		source Source
	}{
		{primary, SourcePrimary},
		{backup, SourceBackup},
	} {
		if candidate.read == nil {
			continue
		}
		data, err := candidate.read()
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate.source, err))
			continue
		}
		out := base.Clone()
		if err := codec.Decode(data, out); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate.source, err))
			continue
		}
		out.Upgrade()
		return out, candidate.source, errors.Join(errs...)
	}
	return base.Clone(), SourceDefaults, errors.Join(errs...)
}

// MemoryStore keeps encoded snapshots in memory
type MemoryStore struct {
	mu      sync.Mutex
	codec   Codec
	current []byte
	backup  []byte
}

func NewMemoryStore(codec Codec) *MemoryStore {
	return &MemoryStore{codec: codec}
}

func (m *MemoryStore) Save(_ context.Context, s *Snapshot) error {
	data, err := m.codec.Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backup = m.current
	m.current = data
	return nil
}

func (m *MemoryStore) Load(_ context.Context, base *Snapshot) (*Snapshot, Source, error) {
	m.mu.Lock()
	current, backup := m.current, m.backup
	m.mu.Unlock()

	read := func(b []byte) func() ([]byte, error) {
		return func() ([]byte, error) {
			if b == nil {
				return nil, ErrNotFound
			}
			return b, nil
		}
	}
	return loadWithFallback(m.codec, base, read(current), read(backup))
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	m.current, m.backup = nil, nil
	m.mu.Unlock()
	return nil
}
