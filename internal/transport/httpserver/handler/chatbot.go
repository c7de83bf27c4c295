package handler

import "net/http"

type chatbotRequest struct {
	Message string `json:"message" validate:"required"`
	Area    string `json:"area" validate:"required"`
}

// Chat answers a shop question from the keyword responder.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatbotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "message and area are required")
		return
	}

	reply, err := h.Bot.Reply(r.Context(), req.Message, req.Area)
	if err != nil {
		h.log.InternalError("chatbot.reply: stock lookup failed", err, "area", req.Area)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
