// Package handler is the thin HTTP adapter for the catalog domain. It only
// decodes requests, delegates to the service and encodes outcomes; no
// business logic lives here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"recordhub/internal/catalog"
	"recordhub/internal/transport/http/shared"
	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
	"recordhub/pkg/requestcontext"
)

// Service defines the catalog operations the handler depends on.
type Service interface {
	CreateItem(ctx context.Context, name, description string, price *float64, inStock bool) (*catalog.Item, error)
	GetItem(ctx context.Context, id domain.ItemID) (*catalog.Item, error)
	UpdateItem(ctx context.Context, id domain.ItemID, patch catalog.Patch) (*catalog.Item, error)
	DeleteItem(ctx context.Context, id domain.ItemID) (*catalog.Item, error)
	ListItems(ctx context.Context, filter catalog.Filter) ([]*catalog.Item, error)
}

type Handler struct {
	logger  *slog.Logger
	catalog Service
}

func New(catalog Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, catalog: catalog}
}

// Register mounts the item routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/items", h.handleList)
	r.Post("/api/items", h.handleCreate)
	r.Get("/api/items/{id}", h.handleGet)
	r.Put("/api/items/{id}", h.handleUpdate)
	r.Delete("/api/items/{id}", h.handleDelete)
}

type createItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	InStock     *bool    `json:"in_stock"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	item, err := h.catalog.CreateItem(r.Context(), req.Name, req.Description, req.Price, inStock)
	if err != nil {
		h.logError(r, "create item failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	item, err := h.catalog.GetItem(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var patch catalog.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	item, err := h.catalog.UpdateItem(r.Context(), id, patch)
	if err != nil {
		h.logError(r, "update item failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseItemID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	item, err := h.catalog.DeleteItem(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	items, err := h.catalog.ListItems(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteList(w, items, len(items))
}

func filterFromQuery(r *http.Request) (catalog.Filter, error) {
	var filter catalog.Filter
	q := r.URL.Query()
	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "min_price must be a number")
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "max_price must be a number")
		}
		filter.MaxPrice = &v
	}
	if raw := q.Get("in_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "in_stock must be a boolean")
		}
		filter.InStock = &v
	}
	filter.Search = q.Get("search")
	return filter, nil
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err.Error(),
	)
}
