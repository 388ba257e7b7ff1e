package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgAuth "github.com/printmart/printmart/internal/pkg/auth"
	testhelpers "github.com/printmart/printmart/internal/test"
	"github.com/printmart/printmart/internal/test/webtest"
)

func newTestRouter(parser testhelpers.TokenParserStub) http.Handler {
	return Setup(Options{
		Facade:      webtest.MarketFacadeStub{},
		Events:      &webtest.EventSourceStub{},
		TokenParser: parser,
		SuccessURL:  "http://front/success",
		FailureURL:  "http://front/failure",
		Logger:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
}

func TestSetupRequiresUserAuth(t *testing.T) {
	router := newTestRouter(testhelpers.TokenParserStub{ID: 7})

	for _, route := range []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/v1/user/payment/checkout"},
		{http.MethodGet, "/api/v1/user/payment/verify"},
		{http.MethodGet, "/api/v1/user/orders/active"},
		{http.MethodGet, "/api/v1/user/orders/history"},
		{http.MethodGet, "/api/v1/user/cart"},
		{http.MethodGet, "/api/v1/user/events"},
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(route.method, route.target, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token, got %d", route.method, route.target, resp.Code)
		}
	}
}

func TestSetupUserRoutesWithToken(t *testing.T) {
	router := newTestRouter(testhelpers.TokenParserStub{ID: 7})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/orders/active", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSetupPaymentStatusIsPublic(t *testing.T) {
	router := newTestRouter(testhelpers.TokenParserStub{ID: 7})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/payment/status?id=TXN-1", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); !strings.HasPrefix(got, "http://front/success") {
		t.Fatalf("expected success redirect, got %q", got)
	}
}

func TestSetupMerchantScope(t *testing.T) {
	router := newTestRouter(testhelpers.TokenParserStub{ID: 3, Scope: pkgAuth.ScopeMerchant})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchant/orders/3", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// A user-scoped token must not reach merchant routes.
	router = newTestRouter(testhelpers.TokenParserStub{ID: 3, Scope: pkgAuth.ScopeUser})
	req = httptest.NewRequest(http.MethodGet, "/api/v1/merchant/orders/3", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestSetupEventsNotGzipped(t *testing.T) {
	router := newTestRouter(testhelpers.TokenParserStub{ID: 7})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/events", nil)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if enc := resp.Header().Get("Content-Encoding"); enc == "gzip" {
		t.Fatalf("event stream must not be gzip encoded")
	}
}
