package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/backend"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/templates/{$}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Write([]byte(`[{"id": 1, "name": "Monthly"}, {"id": 2, "name": "Retainer"}]`))
	})

	mux.HandleFunc("GET /api/templates/1/invoice/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"company": {"name": "Acme"}, "invoice_date": "2024-03-01",
			"invoice_items": [{"id": 3, "name": "Leaf", "address": "Pune",
			"project": {"rate_mode": "Daily", "rate_amount": 100, "currency": "INR"}}]}`))
	})

	mux.HandleFunc("GET /api/templates/500/invoice/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	mux.HandleFunc("PUT /api/templates/1/invoice/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name    string           `json:"name"`
			Payload *invoice.Payload `json:"payload"`
		}

		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name != "Monthly" || body.Payload == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts
}

func TestClient_ListTemplates(t *testing.T) {
	ts := newServer(t)

	got, err := backend.NewClient(ts.URL+"/api/", "secret").ListTemplates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []invoice.Template{{ID: 1, Name: "Monthly"}, {ID: 2, Name: "Retainer"}}, got)

	_, err = backend.NewClient(ts.URL+"/api", "wrong").ListTemplates(context.Background())
	assert.Error(t, err)
}

func TestClient_GetPayload(t *testing.T) {
	ts := newServer(t)
	c := backend.NewClient(ts.URL+"/api", "")

	type testCase struct {
		name       string
		templateID int64
		wantErr    bool
		notFound   bool
	}

	tests := []testCase{
		{name: "Success", templateID: 1},
		{name: "NotFound", templateID: 9, wantErr: true, notFound: true},
		{name: "ServerError", templateID: 500, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := c.GetPayload(context.Background(), tt.templateID)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.notFound, errors.Is(err, invoice.ErrNotFound))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Acme", p.Company.Name)
			require.Len(t, p.InvoiceItems, 1)
			assert.Equal(t, "100", p.InvoiceItems[0].Project.RateAmount.String())
		})
	}
}

func TestClient_SaveTemplate(t *testing.T) {
	ts := newServer(t)
	c := backend.NewClient(ts.URL+"/api", "")

	err := c.SaveTemplate(context.Background(), invoice.Template{ID: 1, Name: "Monthly"}, &invoice.Payload{})
	assert.NoError(t, err)

	err = c.SaveTemplate(context.Background(), invoice.Template{ID: 1, Name: "Other"}, &invoice.Payload{})
	assert.Error(t, err)
}
