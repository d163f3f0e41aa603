package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/pkg/utils"
)

func TestRefreshTokenRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/refresh", RefreshToken(nil))

	t.Run("missing token", func(t *testing.T) {
		w := postJSON(t, router, "/auth/refresh", `{}`)
		if w.Code != 400 {
			t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
		}
		if errs := fieldErrors(t, w); errs["token"] == "" {
			t.Errorf("no error reported for token: %v", errs)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := postJSON(t, router, "/auth/refresh", `{"token": "not.a.token"}`)
		if w.Code != 401 {
			t.Fatalf("status = %d, want 401 (body %s)", w.Code, w.Body.String())
		}
		assertErrorCode(t, w.Body.Bytes(), "INVALID_TOKEN")
	})
}

func TestRefreshTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "signing-secret")
	user := models.User{Email: "amira@blassa.tn"}
	user.ID = 42
	token, err := utils.GenerateToken(&user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "different-secret")
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/refresh", RefreshToken(nil))

	w := postJSON(t, router, "/auth/refresh", `{"token": "`+token+`"}`)
	if w.Code != 401 {
		t.Fatalf("status = %d, want 401 (body %s)", w.Code, w.Body.String())
	}
	assertErrorCode(t, w.Body.Bytes(), "INVALID_TOKEN")
}
