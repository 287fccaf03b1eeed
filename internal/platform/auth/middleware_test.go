package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shms/shms/internal/domain/admin"
)

type fakeAccounts map[string]admin.User

func (f fakeAccounts) Authenticate(username, password string) (admin.User, bool) {
	u, ok := f[username]
	if !ok || u.Password != password {
		return admin.User{}, false
	}
	return u, true
}

var testAccounts = fakeAccounts{
	"recept": {Username: "recept", Role: admin.RoleReceptionist, Password: "recept"},
	"ann":    {Username: "ann", Role: admin.RolePatient, Password: "pw", LinkedID: 7},
}

func newAuthServer() *echo.Echo {
	e := echo.New()
	e.Use(BasicAuth(testAccounts))
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/me", func(c echo.Context) error {
		ctx := c.Request().Context()
		roles := RolesFromContext(ctx)
		if len(roles) != 1 {
			return c.String(http.StatusInternalServerError, "no roles")
		}
		user, _ := c.Get("username").(string)
		return c.JSON(http.StatusOK, map[string]any{
			"user":   UserIDFromContext(ctx),
			"role":   roles[0],
			"linked": LinkedIDFromContext(ctx),
			"logged": user,
		})
	})
	return e
}

func TestBasicAuth_ValidCredentials(t *testing.T) {
	e := newAuthServer()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.SetBasicAuth("ann", "pw")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := `{"linked":7,"logged":"ann","role":"Patient","user":"ann"}`
	if got := rec.Body.String(); got != want+"\n" {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestBasicAuth_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		noAuth   bool
	}{
		{"wrong password", "recept", "nope", false},
		{"unknown user", "ghost", "recept", false},
		{"no header", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAuthServer()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if !tt.noAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestBasicAuth_SkipsPublicPaths(t *testing.T) {
	e := newAuthServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for /health without credentials, got %d", rec.Code)
	}
}
