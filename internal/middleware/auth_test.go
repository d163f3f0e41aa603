package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/pkg/utils"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(200, gin.H{"userId": c.GetUint("userId")})
	})
	router.POST("/rides", AuthMiddleware(), RequireCompleteProfile(), func(c *gin.Context) {
		c.JSON(201, gin.H{"ok": true})
	})
	return router
}

func tokenFor(t *testing.T, complete bool) string {
	t.Helper()
	user := models.User{
		Email:           "amira@blassa.tn",
		ProfileComplete: complete,
	}
	user.ID = 42
	token, err := utils.GenerateToken(&user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := setupRouter()

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{"missing token", "", "", 401},
		{"malformed header", "NotBearer xyz", "", 401},
		{"garbage token", "Bearer not.a.token", "", 401},
		{"valid bearer token", "Bearer " + tokenFor(t, true), "", 200},
		{"valid token via query", "", tokenFor(t, true), 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/protected"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "signing-secret")
	token := tokenFor(t, true)

	t.Setenv("JWT_SECRET", "different-secret")
	router := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 401 {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireCompleteProfile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := setupRouter()

	tests := []struct {
		name       string
		complete   bool
		wantStatus int
	}{
		{"incomplete profile blocked", false, 403},
		{"complete profile allowed", true, 201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rides", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.complete))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
