// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"time"
)

// Validation errors for item input.
var (
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrNameTooLong = errors.New("name cannot exceed 255 characters")
)

// MaxNameLength is the maximum accepted length of an item name.
const MaxNameLength = 255

// Item represents the managed resource. The ID is assigned by the store on
// creation and never changes afterwards.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemInput is the request body for creating or updating an item. The ID is
// never client-supplied.
type ItemInput struct {
	Name string `json:"name"`
}

// Validate checks if the input has valid field values.
func (in *ItemInput) Validate() error {
	if in.Name == "" {
		return ErrEmptyName
	}

	if len(in.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	return nil
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ItemEvent represents an item change notification sent over the WebSocket
// feed after a successful mutation.
type ItemEvent struct {
	Type      string    `json:"type"`
	Item      Item      `json:"item"`
	Timestamp time.Time `json:"timestamp"`
}

// Item event types.
const (
	EventTypeCreated = "item_created"
	EventTypeUpdated = "item_updated"
	EventTypeDeleted = "item_deleted"
)

// NewItemEvent creates an item change event with the current timestamp.
func NewItemEvent(eventType string, item Item) ItemEvent {
	return ItemEvent{
		Type:      eventType,
		Item:      item,
		Timestamp: time.Now().UTC(),
	}
}
