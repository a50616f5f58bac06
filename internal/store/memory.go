package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/vyrodovalexey/itemstore/internal/model"
)

// MemoryStore implements Store with an in-memory ordered collection.
//
// Items are held in a slice so that List reflects insertion order. A single
// RWMutex guards both the slice and the ID counter, so readers never observe
// a partially applied mutation and concurrent Creates never share an ID.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []model.Item
	nextID int64
}

// NewMemoryStore creates an empty MemoryStore with the ID counter seeded at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:  make([]model.Item, 0),
		nextID: 1,
	}
}

// List returns a snapshot copy of all items in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list items: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.Item, len(s.items))
	copy(items, s.items)

	return items, nil
}

// Get retrieves an item by its ID.
func (s *MemoryStore) Get(ctx context.Context, id int64) (*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get item: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item, nil
		}
	}

	return nil, ErrNotFound
}

// Create assigns the next ID to a new item, appends it, and returns it.
// Deleted IDs are never handed out again because the counter only advances.
func (s *MemoryStore) Create(ctx context.Context, name string) (*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("create item: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := model.Item{
		ID:   s.nextID,
		Name: name,
	}
	s.nextID++

	s.items = append(s.items, item)

	return &item, nil
}

// Update replaces the name of the item with the given ID in place.
func (s *MemoryStore) Update(ctx context.Context, id int64, name string) (*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("update item: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Name = name
			item := s.items[i]
			return &item, nil
		}
	}

	return nil, ErrNotFound
}

// Delete removes the item with the given ID. The ID counter is unaffected.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delete item: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}

	return ErrNotFound
}
