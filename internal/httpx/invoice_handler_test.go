package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rairai/go-order-fanout/internal/invoicing"
	"github.com/rairai/go-order-fanout/internal/orders"
)

func TestInvoiceEndpoints(t *testing.T) {
	reg := invoicing.NewRegistry()
	o := &orders.Order{
		ID:       "o1",
		Customer: "acme",
		Items:    []orders.OrderLine{{ProductID: "p1", Quantity: 1, Price: 100}},
	}
	inv, _, err := reg.Generate(o)
	require.NoError(t, err)

	r := NewRouter()
	(&InvoiceHandler{Registry: reg}).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices/o1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), inv.InvoiceID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices/none", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices/o1/document", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "InvoiceId: "+inv.InvoiceID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
