package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, key []byte, method jwt.SigningMethod, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: 7,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	AuthMiddleware()(c)
	return w, c
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	JWTKey = []byte("test-secret")

	token := signToken(t, JWTKey, jwt.SigningMethodHS256, time.Now().Add(time.Hour))
	w, c := runAuth(t, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if id, _ := c.Get("user_id"); id != 7 {
		t.Fatalf("user_id = %v, want 7", id)
	}
	if role, _ := c.Get("role"); role != "admin" {
		t.Fatalf("role = %v, want admin", role)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	JWTKey = []byte("test-secret")

	expired := signToken(t, JWTKey, jwt.SigningMethodHS256, time.Now().Add(-time.Hour))
	wrongKey := signToken(t, []byte("other-secret"), jwt.SigningMethodHS256, time.Now().Add(time.Hour))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := runAuth(t, tc.header)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuthMiddlewareAllowsClockSkew(t *testing.T) {
	JWTKey = []byte("test-secret")

	// expired one minute ago, inside the two minute leeway
	token := signToken(t, JWTKey, jwt.SigningMethodHS256, time.Now().Add(-time.Minute))
	w, _ := runAuth(t, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(role any) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if role != nil {
			c.Set("role", role)
		}
		RequireRoles("admin")(c)
		return w
	}

	if w := run("admin"); w.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", w.Code)
	}
	if w := run("student"); w.Code != http.StatusForbidden {
		t.Fatalf("student: status = %d, want 403", w.Code)
	}
	if w := run(nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no role: status = %d, want 401", w.Code)
	}
}
