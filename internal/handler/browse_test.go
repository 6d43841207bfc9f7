package handler

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/browse"
)

func TestBrowseListForwardsFeatureFilter(t *testing.T) {
	var mu sync.Mutex
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/restaurants/" {
			t.Errorf("unexpected upstream call %s", r.URL.Path)
		}
		mu.Lock()
		gotQuery = r.URL.RawQuery
		mu.Unlock()
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer srv.Close()

	log := zap.NewNop()
	client := api.New(srv.URL, log)
	h := NewBrowseHandler(browse.NewService(client, log), client)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/restaurants?type=cafe&feature=12", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	mu.Lock()
	defer mu.Unlock()
	if gotQuery != "feature=12&type=cafe" {
		t.Errorf("upstream query = %q, want feature and type forwarded", gotQuery)
	}
}

func TestBrowseListRejectsNonNumericFeature(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer srv.Close()

	log := zap.NewNop()
	client := api.New(srv.URL, log)
	h := NewBrowseHandler(browse.NewService(client, log), client)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/restaurants?feature=terrace", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if called {
		t.Error("bad feature value reached the reservation API")
	}
}
