package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rairai/go-order-fanout/internal/invoicing"
)

// InvoiceHandler is the invoice worker's diagnostics surface.
type InvoiceHandler struct {
	Registry *invoicing.Registry
}

func (h *InvoiceHandler) Register(r *chi.Mux) {
	r.Get("/invoices", h.list)
	r.Get("/invoices/{orderId}", h.get)
	r.Get("/invoices/{orderId}/document", h.document)
}

func (h *InvoiceHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Registry.ListAll())
}

func (h *InvoiceHandler) get(w http.ResponseWriter, r *http.Request) {
	inv := h.Registry.Lookup(chi.URLParam(r, "orderId"))
	if inv == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) document(w http.ResponseWriter, r *http.Request) {
	inv := h.Registry.Lookup(chi.URLParam(r, "orderId"))
	if inv == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(inv.Document)
}
