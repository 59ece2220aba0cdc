package dialogs

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/plx/internal/shared"
)

// Record is the durable form of a shown dialog.
type Record struct {
	Tag     string
	Kind    Kind
	Params  string // JSON encoded params
	ShownAt time.Time
}

// Store persists dialog records across host recreation. Save replaces any record with the same tag.
type Store interface {
	Save(rec Record) error
	Delete(tag string) error
	List() ([]Record, error)
	Clear() error
}

// MemoryStore is a [Store] that lives as long as the process.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(rec Record) error {
	if rec.Tag == "" {
		return fmt.Errorf("%w: record tag", shared.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Tag] = rec
	return nil
}

func (s *MemoryStore) Delete(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, tag)
	return nil
}

// List returns records oldest first.
func (s *MemoryStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b Record) int {
		if c := a.ShownAt.Compare(b.ShownAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return records, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.records)
	return nil
}

// DecodeRecord returns the params stored in rec. The record's tag must belong to its kind.
func DecodeRecord(rec Record) (Params, error) {
	p, err := decodeParams(rec.Kind, rec.Params)
	if err != nil {
		return nil, err
	}
	if p.Kind().Tag() != rec.Tag {
		return nil, fmt.Errorf("%w: tag %s does not match kind %s", shared.ErrInvalidInput, rec.Tag, rec.Kind)
	}
	return p, nil
}
