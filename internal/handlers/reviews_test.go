package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// authStub plays the role of the auth middleware for handler tests that
// never reach the database.
func authStub(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (body %s)", err, w.Body.String())
	}
	return resp.Errors
}

func TestCreateReviewValidatesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/reviews", authStub(1), CreateReview(nil, nil))

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"rating above five", `{"bookingId": 3, "rating": 6}`, "rating"},
		{"rating missing", `{"bookingId": 3}`, "rating"},
		{"booking missing", `{"rating": 4}`, "bookingId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/reviews", tt.body)
			if w.Code != 400 {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if errs := fieldErrors(t, w); errs[tt.wantField] == "" {
				t.Errorf("no error reported for %q: %v", tt.wantField, errs)
			}
		})
	}
}
