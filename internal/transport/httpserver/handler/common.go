package handler

import "net/http"

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RunPurge sweeps stale stock on demand, outside the ticker schedule.
func (h *Handlers) RunPurge(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Inventory.PurgeStale(r.Context())
	if err != nil {
		h.log.InternalError("maintenance.purge: sweep failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"stale_items_removed": removed})
}
