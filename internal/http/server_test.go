package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewServer_ServesTheRouter(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	s := NewServer(RouterConfig{Log: newTestLogger(t)})
	if s.Engine == nil {
		t.Fatalf("expected a wired engine")
	}

	req := httptest.NewRequest(nethttp.MethodGet, "/api/nope/", nil)
	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, nethttp.StatusNotFound)
	}
	if want := `{"errors":"Not found."}`; rec.Body.String() != want {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}
