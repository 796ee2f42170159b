package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushsport/pos/internal/pos/domain"
)

func testSubmission() domain.SaleSubmission {
	return domain.SaleSubmission{
		BranchID:      1,
		OperatorID:    7,
		PaymentMethod: domain.PaymentCard,
		Total:         350,
		Lines: []domain.SaleLine{
			{ProductID: 10, Quantity: 3, UnitPrice: 100},
			{ProductID: 11, Quantity: 1, UnitPrice: 50},
		},
	}
}

func TestSubmitSale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sales", r.URL.Path)

		var got domain.SaleSubmission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, testSubmission(), got)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success": true, "data": {"sale_id": "sale-42"}}`))
	}))
	defer server.Close()

	c := NewSalesClient(Config{BaseURL: server.URL})
	receipt, err := c.SubmitSale(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, "sale-42", receipt.SaleID)
}

func TestSubmitSaleLegacyIDField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"id": "sale-7"}}`))
	}))
	defer server.Close()

	c := NewSalesClient(Config{BaseURL: server.URL})
	receipt, err := c.SubmitSale(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, "sale-7", receipt.SaleID)
}

func TestSubmitSaleRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success": false, "error": "insufficient stock for product 10"}`))
	}))
	defer server.Close()

	c := NewSalesClient(Config{BaseURL: server.URL})
	_, err := c.SubmitSale(context.Background(), testSubmission())

	var subErr *domain.SaleSubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "insufficient stock for product 10", subErr.Reason)
}

func TestSubmitSaleUnreachable(t *testing.T) {
	c := NewSalesClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.SubmitSale(context.Background(), testSubmission())

	var subErr *domain.SaleSubmissionError
	assert.ErrorAs(t, err, &subErr)
}
