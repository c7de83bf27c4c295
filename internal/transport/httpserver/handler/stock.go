package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "ration-shop-go/internal/domain/family"
	inventorydomain "ration-shop-go/internal/domain/inventory"

	"github.com/go-chi/chi/v5"
)

type createItemRequest struct {
	Name          string  `json:"name" validate:"required"`
	Area          string  `json:"area" validate:"required"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	TotalQuantity int     `json:"total_quantity" validate:"gte=0"`
	Limit1        int     `json:"limit_1" validate:"gte=0"`
	Limit2        int     `json:"limit_2" validate:"gte=0"`
	Limit3        int     `json:"limit_3" validate:"gte=0"`
	Limit4        int     `json:"limit_4" validate:"gte=0"`
}

type updateItemRequest struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price" validate:"gte=0"`
	TotalQuantity int     `json:"total_quantity" validate:"gte=0"`
	Limit1        int     `json:"limit_1" validate:"gte=0"`
	Limit2        int     `json:"limit_2" validate:"gte=0"`
	Limit3        int     `json:"limit_3" validate:"gte=0"`
	Limit4        int     `json:"limit_4" validate:"gte=0"`
}

type itemResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Area          string    `json:"area"`
	Price         float64   `json:"price"`
	TotalQuantity int       `json:"total_quantity"`
	Limit1        int       `json:"limit_1"`
	Limit2        int       `json:"limit_2"`
	Limit3        int       `json:"limit_3"`
	Limit4        int       `json:"limit_4"`
	CreatedAt     time.Time `json:"created_at"`
}

type availableItemResponse struct {
	itemResponse
	Limit int `json:"limit"`
}

type availableStockResponse struct {
	Items      []availableItemResponse `json:"items"`
	FamilySize int                     `json:"family_size"`
}

// AvailableStock lists what a family may still buy in its area.
func (h *Handlers) AvailableStock(w http.ResponseWriter, r *http.Request) {
	familyCode := strings.TrimSpace(r.URL.Query().Get("family_code"))
	if familyCode == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "family_code is required")
		return
	}

	items, size, err := h.Inventory.ListAvailable(r.Context(), familyCode)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("stock.available: family not found", err, "family_code", familyCode)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("stock.available: list failed", err, "family_code", familyCode)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := availableStockResponse{
		Items:      make([]availableItemResponse, 0, len(items)),
		FamilySize: size,
	}
	for _, item := range items {
		response.Items = append(response.Items, availableItemResponse{
			itemResponse: toItemResponse(&item.RationItem),
			Limit:        item.Limit,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// RecentStock lists items added to an area in the last two days.
func (h *Handlers) RecentStock(w http.ResponseWriter, r *http.Request) {
	area := strings.TrimSpace(r.URL.Query().Get("area"))
	if area == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "area is required")
		return
	}

	items, err := h.Inventory.RecentItems(r.Context(), area, 48*time.Hour)
	if err != nil {
		h.log.InternalError("stock.recent: list failed", err, "area", area)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toItemResponses(items))
}

// AdminStock lists every in-stock item across areas.
func (h *Handlers) AdminStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.AdminStock(r.Context())
	if err != nil {
		h.log.InternalError("stock.admin: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "name, area and a positive price are required")
		return
	}

	item, err := h.Inventory.AddItem(r.Context(), inventorydomain.CreateItemInput{
		Name:          req.Name,
		Area:          req.Area,
		Price:         req.Price,
		TotalQuantity: req.TotalQuantity,
		Limit1:        req.Limit1,
		Limit2:        req.Limit2,
		Limit3:        req.Limit3,
		Limit4:        req.Limit4,
	})
	if err != nil {
		h.log.InternalError("stock.create: create failed", err, "name", req.Name)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "price, quantity and limits must be non-negative")
		return
	}

	item, err := h.Inventory.UpdateItem(r.Context(), inventorydomain.UpdateItemInput{
		ID:            id,
		Name:          req.Name,
		Price:         req.Price,
		TotalQuantity: req.TotalQuantity,
		Limit1:        req.Limit1,
		Limit2:        req.Limit2,
		Limit3:        req.Limit3,
		Limit4:        req.Limit4,
	})
	if err != nil {
		if errors.Is(err, inventorydomain.ErrItemNotFound) {
			h.log.BusinessError("stock.update: item not found", err, "item_id", id)
			writeError(w, http.StatusNotFound, "item_not_found", "item not found")
			return
		}
		h.log.InternalError("stock.update: update failed", err, "item_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	if err := h.Inventory.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, inventorydomain.ErrItemNotFound) {
			h.log.BusinessError("stock.delete: item not found", err, "item_id", id)
			writeError(w, http.StatusNotFound, "item_not_found", "item not found")
			return
		}
		h.log.InternalError("stock.delete: delete failed", err, "item_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toItemResponse(item *inventorydomain.RationItem) itemResponse {
	return itemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Area:          item.Area,
		Price:         item.Price,
		TotalQuantity: item.TotalQuantity,
		Limit1:        item.Limit1,
		Limit2:        item.Limit2,
		Limit3:        item.Limit3,
		Limit4:        item.Limit4,
		CreatedAt:     item.CreatedAt,
	}
}

func toItemResponses(items []inventorydomain.RationItem) []itemResponse {
	response := make([]itemResponse, 0, len(items))
	for i := range items {
		response = append(response, toItemResponse(&items[i]))
	}
	return response
}
