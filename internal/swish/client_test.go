package swish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KellenSmith/TaskMaster-sub001/internal/config"
)

func TestClient_CreatePaymentRequest(t *testing.T) {
	var (
		gotPath string
		gotBody paymentRequestBody
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewClient(&config.SwishConfig{
		BaseURL:     srv.URL,
		PayeeAlias:  "1234679304",
		CallbackURL: "https://example.com/callback",
	})
	require.NoError(t, err)

	err = client.CreatePaymentRequest(context.Background(), "ABC123", 10050, "Member ticket")
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/paymentrequests/ABC123", gotPath)
	assert.Equal(t, "ABC123", gotBody.PayeePaymentReference)
	assert.Equal(t, "100.50", gotBody.Amount)
	assert.Equal(t, "SEK", gotBody.Currency)
	assert.Equal(t, "1234679304", gotBody.PayeeAlias)
	assert.Equal(t, "https://example.com/callback", gotBody.CallbackURL)
}

func TestClient_CreatePaymentRequest_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client, err := NewClient(&config.SwishConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	err = client.CreatePaymentRequest(context.Background(), "ABC123", 100, "ticket")
	assert.ErrorContains(t, err, "422")
}
