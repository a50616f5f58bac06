// Package handler provides HTTP request handlers for the item API.
package handler

import "github.com/vyrodovalexey/itemstore/internal/model"

// Plain-text response bodies. These are part of the documented contract and
// must not change shape.
const (
	BannerMessage   = "running"
	ItemNotFoundMsg = "Item not found"
	ItemDeletedMsg  = "Item deleted successfully"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// EventPublisher receives item change events after successful mutations.
// A nil publisher disables event delivery.
type EventPublisher interface {
	Publish(event model.ItemEvent)
}
