// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/itemstore/internal/model"
)

// ErrNotFound is returned when no item with the given ID exists. It is the
// only error the store surfaces for well-formed input.
var ErrNotFound = errors.New("item not found")

// Store defines the interface for item storage operations.
//
// Implementations must preserve insertion order for listings and must never
// reuse an ID, even after the item carrying it has been deleted.
type Store interface {
	// List returns all items in insertion order.
	List(ctx context.Context) ([]model.Item, error)

	// Get retrieves an item by its ID.
	Get(ctx context.Context, id int64) (*model.Item, error)

	// Create assigns the next ID to a new item with the given name,
	// appends it to the collection, and returns it.
	Create(ctx context.Context, name string) (*model.Item, error)

	// Update replaces the name of an existing item, keeping its ID and
	// position, and returns the updated item.
	Update(ctx context.Context, id int64, name string) (*model.Item, error)

	// Delete removes an item from the store by its ID.
	Delete(ctx context.Context, id int64) error
}
