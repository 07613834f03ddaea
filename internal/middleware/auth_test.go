package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var testSecret = []byte("test-secret")

func newRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireRole(testSecret, roles...), func(c *gin.Context) {
		id, role := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	dept := uint(3)
	headToken, err := IssueToken(testSecret, 12, "kadep", "head_departemen", &dept, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	expired, _ := IssueToken(testSecret, 12, "kadep", "head_departemen", nil, time.Now().Add(-48*time.Hour))
	forged, _ := IssueToken([]byte("other"), 12, "kadep", "superadmin", nil, time.Now())

	tests := []struct {
		name   string
		roles  []string
		header string
		want   int
	}{
		{"missing header", nil, "", http.StatusUnauthorized},
		{"bad scheme", nil, "Token " + headToken, http.StatusUnauthorized},
		{"expired", nil, "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", nil, "Bearer " + forged, http.StatusUnauthorized},
		{"role not allowed", []string{"admin", "superadmin"}, "Bearer " + headToken, http.StatusForbidden},
		{"role allowed", []string{"admin", "head_departemen"}, "Bearer " + headToken, http.StatusOK},
		{"any authenticated", nil, "Bearer " + headToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newRouter(tt.roles...), tt.header)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	dept := uint(5)
	token, err := IssueToken(testSecret, 99, "ga", "ga_transport", &dept, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 99 {
		t.Fatalf("user id = %d, %v", id, err)
	}
	if claims.Role != "ga_transport" || claims.DepartmentID == nil || *claims.DepartmentID != 5 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
