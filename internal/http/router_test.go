package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	invoicerhttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	handler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, expires time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	s, err := token.SignedString(key)
	require.NoError(t, err)

	return s
}

func newRouter(t *testing.T, opts invoicerhttp.Options) (http.Handler, *invoice.MockRepository) {
	t.Helper()

	repo := invoice.NewMockRepository(gomock.NewController(t))

	return invoicerhttp.New(opts, handler.NewHandler(invoice.NewService(repo))), repo
}

func TestRouter_Auth(t *testing.T) {
	type testCase struct {
		name       string
		header     string
		wantStatus int
	}

	tests := []testCase{
		{name: "Missing", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "Garbage", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{
			name:       "WrongSecret",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Expired",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(-time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Valid",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t, invoicerhttp.Options{AuthSecret: secret})

			if tt.wantStatus == http.StatusOK {
				repo.EXPECT().ListTemplates(gomock.Any()).Return(nil, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_NoAuthWithoutSecret(t *testing.T) {
	router, repo := newRouter(t, invoicerhttp.Options{})
	repo.EXPECT().ListTemplates(gomock.Any()).Return(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newRouter(t, invoicerhttp.Options{CORSOrigins: []string{"https://dash.test"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/invoices/preview", nil)
	req.Header.Set("Origin", "https://dash.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://dash.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	router, repo := newRouter(t, invoicerhttp.Options{Metrics: invoicerhttp.NewMetrics("invoicer")})
	repo.EXPECT().ListTemplates(gomock.Any()).Return(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `invoicer_http_requests_total{method="GET",route="/api/v1/templates",status="200"} 1`)
}
