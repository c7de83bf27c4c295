package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "ration-shop-go/internal/domain/family"

	"github.com/go-chi/chi/v5"
)

type createFamilyRequest struct {
	Code string `json:"code" validate:"required"`
	Area string `json:"area" validate:"required"`
}

type updateFamilyRequest struct {
	Code string `json:"code" validate:"required"`
	Area string `json:"area" validate:"required"`
}

type createMemberRequest struct {
	Name   string  `json:"name" validate:"required"`
	Aadhar string  `json:"aadhar" validate:"required,len=12,numeric"`
	Email  *string `json:"email" validate:"omitempty,email"`
}

type updateMemberRequest struct {
	Name      string  `json:"name" validate:"required"`
	NewAadhar string  `json:"new_aadhar" validate:"required,len=12,numeric"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type familyResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Area      string    `json:"area"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "code and area are required")
		return
	}

	result, err := h.Families.CreateFamily(r.Context(), req.Code, req.Area)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyExists) {
			h.log.BusinessError("families.create: code taken", err, "code", req.Code)
			writeError(w, http.StatusConflict, "family_exists", "family code already exists")
			return
		}
		h.log.InternalError("families.create: create failed", err, "code", req.Code)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toFamilyResponse(result))
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))

	result, err := h.Families.GetFamilyByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.get: family not found", err, "code", code)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.get: lookup failed", err, "code", code)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))

	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "code and area are required")
		return
	}

	result, err := h.Families.UpdateFamily(r.Context(), code, req.Code, req.Area)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("families.update: family not found", err, "code", code)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		case errors.Is(err, familydomain.ErrFamilyExists):
			h.log.BusinessError("families.update: new code taken", err, "code", req.Code)
			writeError(w, http.StatusConflict, "family_exists", "family code already exists")
		default:
			h.log.InternalError("families.update: update failed", err, "code", code)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))

	if err := h.Families.DeleteFamily(r.Context(), code); err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.delete: family not found", err, "code", code)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.delete: delete failed", err, "code", code)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Families.ListAreas(r.Context())
	if err != nil {
		h.log.InternalError("families.areas: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, areas)
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))

	members, err := h.Families.ListMembers(r.Context(), code)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.members: family not found", err, "code", code)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.members: list failed", err, "code", code)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]memberResponse, 0, len(members))
	for i := range members {
		response = append(response, toMemberResponse(&members[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))

	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and a 12-digit aadhar are required")
		return
	}

	member, err := h.Families.AddMember(r.Context(), familydomain.CreateMemberInput{
		FamilyCode:   code,
		Name:         req.Name,
		AadharNumber: req.Aadhar,
		Email:        req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("members.create: family not found", err, "code", code)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		case errors.Is(err, familydomain.ErrAadharTaken):
			h.log.BusinessError("members.create: aadhar taken", err, "aadhar", req.Aadhar)
			writeError(w, http.StatusConflict, "aadhar_taken", "aadhar number already registered")
		default:
			h.log.InternalError("members.create: create failed", err, "code", code)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(member))
}

func (h *Handlers) UpdateFamilyMember(w http.ResponseWriter, r *http.Request) {
	aadhar := strings.TrimSpace(chi.URLParam(r, "aadhar"))

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and a 12-digit aadhar are required")
		return
	}

	member, err := h.Families.UpdateMember(r.Context(), familydomain.UpdateMemberInput{
		AadharNumber:    aadhar,
		Name:            req.Name,
		NewAadharNumber: req.NewAadhar,
		Email:           req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("members.update: member not found", err, "aadhar", aadhar)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, familydomain.ErrAadharTaken):
			h.log.BusinessError("members.update: aadhar taken", err, "aadhar", req.NewAadhar)
			writeError(w, http.StatusConflict, "aadhar_taken", "aadhar number already registered")
		default:
			h.log.InternalError("members.update: update failed", err, "aadhar", aadhar)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(member))
}

func (h *Handlers) DeleteFamilyMember(w http.ResponseWriter, r *http.Request) {
	aadhar := strings.TrimSpace(chi.URLParam(r, "aadhar"))

	if err := h.Families.DeleteMember(r.Context(), aadhar); err != nil {
		if errors.Is(err, familydomain.ErrMemberNotFound) {
			h.log.BusinessError("members.delete: member not found", err, "aadhar", aadhar)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.log.InternalError("members.delete: delete failed", err, "aadhar", aadhar)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toFamilyResponse(familyModel *familydomain.Family) familyResponse {
	return familyResponse{
		ID:        familyModel.ID,
		Code:      familyModel.Code,
		Area:      familyModel.Area,
		CreatedAt: familyModel.CreatedAt,
	}
}
