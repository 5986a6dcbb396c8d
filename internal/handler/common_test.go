package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetUserID(t *testing.T) {
	e := echo.New()
	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	cases := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"float64 from jwt claims", float64(42), 42, true},
		{"uint64", uint64(7), 7, true},
		{"int", 3, 3, true},
		{"numeric string", "19", 19, true},
		{"garbage string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCtx()
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if tc.ok && (err != nil || got != tc.want) {
				t.Errorf("getUserID = (%d,%v), want (%d,nil)", got, err, tc.want)
			}
			if !tc.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	mk := func(id string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(id)
		return c
	}

	if id, err := pathID(mk("12")); err != nil || id != 12 {
		t.Errorf("pathID(12) = (%d,%v)", id, err)
	}
	for _, bad := range []string{"0", "-1", "abc", ""} {
		if _, err := pathID(mk(bad)); err == nil {
			t.Errorf("pathID(%q) accepted invalid id", bad)
		}
	}
}
