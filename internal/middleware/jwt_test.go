package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/slotify/parking-api/internal/model"
	"github.com/slotify/parking-api/internal/utils"
)

const testSecret = "unit-test-secret"

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := doRequest(t, JWTAuth(testSecret), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthMalformedToken(t *testing.T) {
	rec := doRequest(t, JWTAuth(testSecret), "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "EMPLOYEE", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec := doRequest(t, JWTAuth(testSecret), "Bearer "+at.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthValidTokenInjectsClaims(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "EMPLOYEE", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID, gotRole interface{}
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		gotUserID = c.Get("user_id")
		gotRole = c.Get("role")
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// JSON numbers decode as float64 inside MapClaims.
	if n, ok := gotUserID.(float64); !ok || uint64(n) != 7 {
		t.Errorf("user_id = %v, want 7", gotUserID)
	}
	if gotRole != "EMPLOYEE" {
		t.Errorf("role = %v, want EMPLOYEE", gotRole)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		role     interface{}
		required []model.Role
		want     int
	}{
		{"allowed single", "ADMIN", []model.Role{model.RoleAdmin}, http.StatusOK},
		{"allowed in set", "SECURITY", []model.Role{model.RoleAdmin, model.RoleSecurity}, http.StatusOK},
		{"denied", "EMPLOYEE", []model.Role{model.RoleAdmin}, http.StatusForbidden},
		{"unknown role", "OWNER", []model.Role{model.RoleAdmin}, http.StatusForbidden},
		{"missing role", nil, []model.Role{model.RoleAdmin}, http.StatusForbidden},
		{"non-string role", 42, []model.Role{model.RoleAdmin}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}

			h := RequireRole(tc.required...)(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})
			if err := h(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
