package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rairai/go-order-fanout/internal/inventory"
)

// StockHandler is the stock worker's diagnostics surface. Reads and
// operational corrections only; reservations happen on the consumer
// path.
type StockHandler struct {
	Ledger *inventory.Ledger
}

func (h *StockHandler) Register(r *chi.Mux) {
	r.Get("/stock", h.snapshot)
	r.Get("/stock/{productId}", h.query)
	r.Post("/stock/{productId}/adjust", h.adjust)
}

func (h *StockHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Ledger.Snapshot())
}

func (h *StockHandler) query(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	writeJSON(w, http.StatusOK, map[string]any{"product_id": id, "available": h.Ledger.Query(id)})
}

type adjustReq struct {
	Amount int `json:"amount"` // signed
}

func (h *StockHandler) adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	id := chi.URLParam(r, "productId")
	level := h.Ledger.Restock(id, req.Amount)
	writeJSON(w, http.StatusOK, map[string]any{"product_id": id, "available": level})
}
