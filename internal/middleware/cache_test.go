package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/slotify/parking-api/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Multi", "a")
	hdr.Add("X-Multi", "b")
	body := []byte(`[{"id":1,"slotCode":"M1001"}]`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}

	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decodePayload: not ok")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", gotHdr.Get("Content-Type"))
	}
	if vals := gotHdr["X-Multi"]; len(vals) != 2 || vals[0] != "a" || vals[1] != "b" {
		t.Errorf("X-Multi = %v, want [a b]", vals)
	}
	if !bytes.Equal(gotBody, body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadTruncatedInput(t *testing.T) {
	for _, bs := range [][]byte{nil, {}, {1, 2, 3}, make([]byte, 7)} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decodePayload(%d bytes) = ok, want not ok", len(bs))
		}
	}
	// Header length pointing past the buffer must be rejected.
	bad, err := encodePayload(http.StatusOK, http.Header{"A": {"b"}}, []byte("x"))
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	if _, _, _, ok := decodePayload(bad[:9]); ok {
		t.Error("decodePayload accepted a truncated header")
	}
}

func TestCacheKeyFromStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	mk := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/slots")
		return c
	}

	a := cacheKeyFrom(cfg, mk("/api/slots?x=1"))
	b := cacheKeyFrom(cfg, mk("/api/slots?x=1"))
	if a != b {
		t.Error("same request must produce the same key")
	}
	if c := cacheKeyFrom(cfg, mk("/api/slots?x=2")); c == a {
		t.Error("different query must produce a different key under route_query")
	}

	cfg.KeyStrategy = "route"
	if c := cacheKeyFrom(cfg, mk("/api/slots?x=2")); c != cacheKeyFrom(cfg, mk("/api/slots?x=3")) {
		t.Error("query must not affect the key under route strategy")
	}
}

func TestNewRedisCacheNilClientPassesThrough(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true}
	mw := NewRedisCache(cfg, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/slots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !called {
		t.Error("next handler not invoked with nil redis client")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestNewTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
