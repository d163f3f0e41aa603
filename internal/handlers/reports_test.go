package handlers

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCreateReportValidatesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/reports", authStub(9), CreateReport(nil))

	t.Run("missing reason and description", func(t *testing.T) {
		w := postJSON(t, router, "/reports", `{"reportedUserId": 3}`)
		if w.Code != 400 {
			t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
		}
		errs := fieldErrors(t, w)
		if errs["reason"] == "" || errs["description"] == "" {
			t.Errorf("missing field errors: %v", errs)
		}
	})

	t.Run("no target named", func(t *testing.T) {
		w := postJSON(t, router, "/reports", `{"reason": "Comportement", "description": "Conduite dangereuse"}`)
		if w.Code != 400 {
			t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
		}
		assertErrorCode(t, w.Body.Bytes(), "REPORT_TARGET_REQUIRED")
	})

	t.Run("self report rejected", func(t *testing.T) {
		w := postJSON(t, router, "/reports", `{"reportedUserId": 9, "reason": "Spam", "description": "Se signale lui-même"}`)
		if w.Code != 400 {
			t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
		}
		assertErrorCode(t, w.Body.Bytes(), "CANNOT_REPORT_SELF")
	})
}

func assertErrorCode(t *testing.T, body []byte, want string) {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error != want {
		t.Errorf("error = %q, want %q", resp.Error, want)
	}
}
