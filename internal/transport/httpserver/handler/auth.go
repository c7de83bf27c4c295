package handler

import (
	"errors"
	"net/http"
	"time"

	familydomain "ration-shop-go/internal/domain/family"
	otpdomain "ration-shop-go/internal/domain/otp"
)

type loginRequest struct {
	Aadhar string `json:"aadhar" validate:"required,len=12,numeric"`
}

type sendLoginOTPRequest struct {
	Aadhar string `json:"aadhar" validate:"required,len=12,numeric"`
	Email  string `json:"email" validate:"required,email"`
}

type verifyLoginOTPRequest struct {
	Aadhar string `json:"aadhar" validate:"required,len=12,numeric"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

type memberResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AadharNumber string    `json:"aadhar_number"`
	Email        *string   `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

type loginResponse struct {
	Member     memberResponse `json:"member"`
	FamilyCode string         `json:"family_code"`
	Area       string         `json:"area"`
}

// Login resolves a member by aadhar without an OTP round trip. The frontend
// uses it to restore sessions; fresh logins go through the OTP pair below.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "aadhar must be a 12-digit number")
		return
	}

	member, fam, err := h.Families.LoginWithAadhar(r.Context(), req.Aadhar)
	if err != nil {
		if errors.Is(err, familydomain.ErrMemberNotFound) {
			h.log.BusinessError("auth.login: member not found", err, "aadhar", req.Aadhar)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.log.InternalError("auth.login: lookup failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Member:     toMemberResponse(member),
		FamilyCode: fam.Code,
		Area:       fam.Area,
	})
}

// SendLoginOTP mails a login code to the member's registered email.
func (h *Handlers) SendLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req sendLoginOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "aadhar and a valid email are required")
		return
	}

	if err := h.OTP.IssueLogin(r.Context(), req.Aadhar, req.Email); err != nil {
		switch {
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("auth.send_otp: member not found", err, "aadhar", req.Aadhar)
			writeError(w, http.StatusNotFound, "member_not_found", "no member with this aadhar and email")
		case errors.Is(err, otpdomain.ErrDeliveryFailed):
			h.log.InternalError("auth.send_otp: delivery failed", err, "email", req.Email)
			writeError(w, http.StatusBadGateway, "delivery_failed", "could not send the OTP email")
		default:
			h.log.InternalError("auth.send_otp: issue failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "otp_sent"})
}

// VerifyLoginOTP checks the code and returns the member with family context.
func (h *Handlers) VerifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyLoginOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "aadhar and a 6-digit otp are required")
		return
	}

	member, err := h.OTP.VerifyLogin(r.Context(), req.Aadhar, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("auth.verify_otp: member not found", err, "aadhar", req.Aadhar)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, otpdomain.ErrCodeExpired):
			h.log.BusinessError("auth.verify_otp: code expired", err, "aadhar", req.Aadhar)
			writeError(w, http.StatusUnauthorized, "otp_expired", "otp expired")
		case errors.Is(err, otpdomain.ErrCodeNotFound):
			h.log.BusinessError("auth.verify_otp: code mismatch", err, "aadhar", req.Aadhar)
			writeError(w, http.StatusUnauthorized, "otp_invalid", "invalid otp")
		default:
			h.log.InternalError("auth.verify_otp: verify failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Member:     toMemberResponse(member),
		FamilyCode: member.Family.Code,
		Area:       member.Family.Area,
	})
}

func toMemberResponse(member *familydomain.Member) memberResponse {
	return memberResponse{
		ID:           member.ID,
		Name:         member.Name,
		AadharNumber: member.AadharNumber,
		Email:        member.Email,
		CreatedAt:    member.CreatedAt,
	}
}
