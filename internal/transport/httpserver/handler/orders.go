package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "ration-shop-go/internal/domain/family"
	orderdomain "ration-shop-go/internal/domain/order"
	otpdomain "ration-shop-go/internal/domain/otp"
	"ration-shop-go/internal/invoice"

	"github.com/go-chi/chi/v5"
)

type sendCheckoutOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type orderLineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type placeOrderRequest struct {
	FamilyCode string             `json:"family_code" validate:"required"`
	Email      string             `json:"email" validate:"required,email"`
	OTP        string             `json:"otp" validate:"required,len=6,numeric"`
	Flow       string             `json:"flow" validate:"omitempty,oneof=immediate deferred"`
	Items      []orderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type orderItemResponse struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type orderResponse struct {
	Token         string              `json:"token"`
	TotalPrice    float64             `json:"total_price"`
	PaymentStatus string              `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []orderItemResponse `json:"items"`
}

type orderSummaryResponse struct {
	orderResponse
	FamilyCode string `json:"family_code"`
	Area       string `json:"area"`
}

// SendCheckoutOTP issues the single-use code that authorizes an order.
func (h *Handlers) SendCheckoutOTP(w http.ResponseWriter, r *http.Request) {
	var req sendCheckoutOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "a valid email is required")
		return
	}

	if _, err := h.OTP.IssueCheckout(r.Context(), req.Email); err != nil {
		if errors.Is(err, otpdomain.ErrDeliveryFailed) {
			h.log.InternalError("checkout.send_otp: delivery failed", err, "email", req.Email)
			writeError(w, http.StatusBadGateway, "delivery_failed", "could not send the OTP email")
			return
		}
		h.log.InternalError("checkout.send_otp: issue failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "otp_sent"})
}

// PlaceOrder commits a cart after OTP verification.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "family_code, email, otp and at least one item are required")
		return
	}

	lines := make([]orderdomain.Line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, orderdomain.Line{ItemID: item.ItemID, Quantity: item.Quantity})
	}

	placed, err := h.Orders.PlaceOrder(r.Context(), orderdomain.PlaceOrderInput{
		FamilyCode: req.FamilyCode,
		Email:      req.Email,
		OTPCode:    req.OTP,
		Flow:       orderdomain.PaymentFlow(req.Flow),
		Lines:      lines,
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("orders.place: family not found", err, "family_code", req.FamilyCode)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		case errors.Is(err, otpdomain.ErrCodeNotFound),
			errors.Is(err, otpdomain.ErrCodeExpired),
			errors.Is(err, otpdomain.ErrCodeAlreadyUsed):
			h.log.BusinessError("orders.place: otp rejected", err, "email", req.Email)
			writeError(w, http.StatusUnauthorized, "otp_rejected", "otp is invalid, expired or already used")
		case errors.Is(err, orderdomain.ErrItemNotFound):
			h.log.BusinessError("orders.place: item not found", err)
			writeError(w, http.StatusNotFound, "item_not_found", err.Error())
		case errors.Is(err, orderdomain.ErrInsufficientStock):
			h.log.BusinessError("orders.place: insufficient stock", err, "family_code", req.FamilyCode)
			writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
		case errors.Is(err, orderdomain.ErrEmptyOrder), errors.Is(err, orderdomain.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, orderdomain.ErrBusy):
			h.log.Warn("orders.place: stock contention", "family_code", req.FamilyCode)
			writeError(w, http.StatusServiceUnavailable, "busy", "stock is busy, please retry")
		default:
			h.log.InternalError("orders.place: place failed", err, "family_code", req.FamilyCode)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(placed))
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))

	result, err := h.Orders.GetOrder(r.Context(), token)
	if err != nil {
		if errors.Is(err, orderdomain.ErrOrderNotFound) {
			h.log.BusinessError("orders.get: order not found", err, "token", token)
			writeError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		h.log.InternalError("orders.get: lookup failed", err, "token", token)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(result))
}

// ConfirmPayment settles a deferred order as paid.
func (h *Handlers) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	h.settleOrder(w, r, orderdomain.StatusPaid)
}

// FailPayment records a failed payment attempt for a pending order.
func (h *Handlers) FailPayment(w http.ResponseWriter, r *http.Request) {
	h.settleOrder(w, r, orderdomain.StatusFailed)
}

func (h *Handlers) settleOrder(w http.ResponseWriter, r *http.Request, status string) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))

	var err error
	if status == orderdomain.StatusPaid {
		err = h.Orders.MarkPaid(r.Context(), token)
	} else {
		err = h.Orders.MarkFailed(r.Context(), token)
	}
	if err != nil {
		switch {
		case errors.Is(err, orderdomain.ErrOrderNotFound):
			h.log.BusinessError("orders.settle: order not found", err, "token", token)
			writeError(w, http.StatusNotFound, "order_not_found", "order not found")
		case errors.Is(err, orderdomain.ErrAlreadySettled):
			h.log.BusinessError("orders.settle: already settled", err, "token", token)
			writeError(w, http.StatusConflict, "already_settled", "order already settled")
		default:
			h.log.InternalError("orders.settle: settle failed", err, "token", token)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token, "payment_status": status})
}

// LatestOrder returns the family's newest order, for the success page.
func (h *Handlers) LatestOrder(w http.ResponseWriter, r *http.Request) {
	familyCode := strings.TrimSpace(r.URL.Query().Get("family_code"))
	if familyCode == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "family_code is required")
		return
	}

	result, err := h.Orders.LatestForFamily(r.Context(), familyCode)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("orders.latest: family not found", err, "family_code", familyCode)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		case errors.Is(err, orderdomain.ErrOrderNotFound):
			h.log.BusinessError("orders.latest: no orders", err, "family_code", familyCode)
			writeError(w, http.StatusNotFound, "order_not_found", "no orders for this family")
		default:
			h.log.InternalError("orders.latest: lookup failed", err, "family_code", familyCode)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(result))
}

// ListOrders is the admin order feed, optionally filtered by area.
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	area := strings.TrimSpace(r.URL.Query().Get("area"))

	summaries, err := h.Orders.ListOrders(r.Context(), area)
	if err != nil {
		h.log.InternalError("orders.list: list failed", err, "area", area)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toOrderSummaryResponses(summaries))
}

// VerifyPickup matches paid orders to a checkout code at the shop counter.
func (h *Handlers) VerifyPickup(w http.ResponseWriter, r *http.Request) {
	otpCode := strings.TrimSpace(r.URL.Query().Get("otp"))
	area := strings.TrimSpace(r.URL.Query().Get("area"))
	if otpCode == "" || area == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "otp and area are required")
		return
	}

	summaries, err := h.Orders.FindPaidByOTP(r.Context(), otpCode, area)
	if err != nil {
		if errors.Is(err, orderdomain.ErrOrderNotFound) {
			h.log.BusinessError("orders.verify_pickup: no match", err, "area", area)
			writeError(w, http.StatusNotFound, "order_not_found", "no paid order matches this otp in the area")
			return
		}
		h.log.InternalError("orders.verify_pickup: lookup failed", err, "area", area)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toOrderSummaryResponses(summaries))
}

// DownloadInvoice renders the order receipt as plain text, in English or
// Tamil.
func (h *Handlers) DownloadInvoice(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))
	lang := strings.TrimSpace(r.URL.Query().Get("lang"))
	familyCode := strings.TrimSpace(r.URL.Query().Get("family_code"))

	result, err := h.Orders.GetOrder(r.Context(), token)
	if err != nil {
		if errors.Is(err, orderdomain.ErrOrderNotFound) {
			h.log.BusinessError("orders.invoice: order not found", err, "token", token)
			writeError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		h.log.InternalError("orders.invoice: lookup failed", err, "token", token)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	text := invoice.Render(result, familyCode, lang)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice_`+result.Token+`.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func toOrderResponse(o *orderdomain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, orderItemResponse{
			ItemID:    line.ItemID,
			Name:      line.ItemName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return orderResponse{
		Token:         o.Token,
		TotalPrice:    o.TotalPrice,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
}

func toOrderSummaryResponses(summaries []orderdomain.Summary) []orderSummaryResponse {
	response := make([]orderSummaryResponse, 0, len(summaries))
	for i := range summaries {
		response = append(response, orderSummaryResponse{
			orderResponse: toOrderResponse(&summaries[i].Order),
			FamilyCode:    summaries[i].FamilyCode,
			Area:          summaries[i].Area,
		})
	}
	return response
}
