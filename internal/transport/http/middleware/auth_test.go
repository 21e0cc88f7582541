package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akmatoff/auth-api/internal/auth"
	"github.com/akmatoff/auth-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "middleware-test-secret-32-chars!!"

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine protects GET /protected with the Authorized middleware. The
// handler echoes the identity placed in the context so tests can assert it.
func newEngine() *gin.Engine {
	tokens := auth.NewTokenService([]byte(testKey))

	r := gin.New()
	r.GET("/protected", middleware.Authorized(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("userID"),
			"email":   c.GetString("email"),
		})
	})
	return r
}

func get(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	newEngine().ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) (errors []string, message string) {
	t.Helper()
	var body struct {
		Errors  []string `json:"errors"`
		Message string   `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body %q: %v", w.Body.String(), err)
	}
	return body.Errors, body.Message
}

func makeJWT(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return s
}

func TestAuthorized_MissingHeader(t *testing.T) {
	w := get(t, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	errs, msg := errorBody(t, w)
	if len(errs) != 1 || errs[0] != "Missing authorization header" {
		t.Errorf("errors = %q", errs)
	}
	if msg != "Unauthorized" {
		t.Errorf("message = %q, want Unauthorized", msg)
	}
}

func TestAuthorized_NonBearerScheme(t *testing.T) {
	w := get(t, "Basic dXNlcjpwYXNz")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	errs, _ := errorBody(t, w)
	if len(errs) != 1 || errs[0] != "Invalid authorization scheme" {
		t.Errorf("errors = %q", errs)
	}
}

func TestAuthorized_InvalidToken(t *testing.T) {
	w := get(t, "Bearer not.a.jwt")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	errs, _ := errorBody(t, w)
	if len(errs) != 1 || errs[0] == "" {
		t.Errorf("expected the verification failure's message, got %q", errs)
	}
}

func TestAuthorized_ExpiredToken(t *testing.T) {
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
	})

	if w := get(t, "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthorized_WrongSigningKey(t *testing.T) {
	tok := makeJWT(t, []byte("different-key-that-is-32-chars!!"), jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if w := get(t, "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthorized_ValidToken_SetsIdentity(t *testing.T) {
	token, err := auth.NewTokenService([]byte(testKey)).Issue("user-abc", "abc@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := get(t, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var body struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.UserID != "user-abc" || body.Email != "abc@example.com" {
		t.Errorf("identity = %+v", body)
	}
}
