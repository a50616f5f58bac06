package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/itemstore/internal/model"
	"github.com/vyrodovalexey/itemstore/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// RESTHandler handles REST API requests for items.
type RESTHandler struct {
	store  store.Store
	logger *zap.Logger
	events EventPublisher
}

// NewRESTHandler creates a new RESTHandler instance. The publisher may be
// nil, in which case mutations emit no events.
func NewRESTHandler(s store.Store, logger *zap.Logger, events EventPublisher) *RESTHandler {
	return &RESTHandler{
		store:  s,
		logger: logger,
		events: events,
	}
}

// RegisterRoutes registers the REST API routes with the router.
//
// The {id} segment is constrained to digits, so requests with a non-numeric
// ID are rejected by the router and never reach the store.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Banner).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	router.HandleFunc("/items", h.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{id:[0-9]+}", h.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/items/{id:[0-9]+}", h.UpdateItem).Methods(http.MethodPut)
	router.HandleFunc("/items/{id:[0-9]+}", h.DeleteItem).Methods(http.MethodDelete)
}

// Banner handles GET / requests.
func (h *RESTHandler) Banner(w http.ResponseWriter, _ *http.Request) {
	h.writeText(w, http.StatusOK, BannerMessage)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
	}
	h.writeJSON(w, http.StatusOK, response)
}

// ListItems handles GET /items requests.
func (h *RESTHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to retrieve items")
		return
	}

	h.writeJSON(w, http.StatusOK, items)
}

// GetItem handles GET /items/{id} requests.
func (h *RESTHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item, err := h.store.Get(ctx, id)
	if err != nil {
		h.handleStoreError(w, err, "get item")
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /items requests. Creation responds 200, not 201;
// this is the documented contract.
func (h *RESTHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	item, err := h.store.Create(ctx, input.Name)
	if err != nil {
		h.handleStoreError(w, err, "create item")
		return
	}

	h.publish(model.EventTypeCreated, *item)
	h.writeJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /items/{id} requests.
func (h *RESTHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	item, err := h.store.Update(ctx, id, input.Name)
	if err != nil {
		h.handleStoreError(w, err, "update item")
		return
	}

	h.publish(model.EventTypeUpdated, *item)
	h.writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /items/{id} requests.
func (h *RESTHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		h.handleStoreError(w, err, "delete item")
		return
	}

	h.publish(model.EventTypeDeleted, model.Item{ID: id})
	h.writeText(w, http.StatusOK, ItemDeletedMsg)
}

// pathID extracts the numeric {id} path variable. The route constraint
// guarantees digits, so a parse failure means a routing misconfiguration.
func (h *RESTHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		h.logger.Error("unparseable id path variable", zap.String("id", vars["id"]), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid item ID")
		return 0, false
	}

	return id, true
}

// decodeInput decodes and validates an item request body.
func (h *RESTHandler) decodeInput(w http.ResponseWriter, r *http.Request) (*model.ItemInput, bool) {
	var input model.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return &input, true
}

// publish forwards an item change event to the configured publisher.
func (h *RESTHandler) publish(eventType string, item model.Item) {
	if h.events == nil {
		return
	}
	h.events.Publish(model.NewItemEvent(eventType, item))
}

// handleStoreError handles store errors and writes appropriate HTTP responses.
func (h *RESTHandler) handleStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeText(w, http.StatusNotFound, ItemNotFoundMsg)
	default:
		h.logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeText writes a plain-text response with the given status code.
func (h *RESTHandler) writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := w.Write([]byte(message)); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// writeError writes a JSON error response with the given status code and message.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	response := model.ErrorResponse{
		Code:    status,
		Message: message,
	}
	h.writeJSON(w, status, response)
}
