package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestBindJSONReportsFieldErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var body registerBody
		if !BindJSON(c, &body) {
			return
		}
		OK(c, body)
	})

	tests := []struct {
		name   string
		body   string
		status int
		fields []string
	}{
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
		{name: "bad email and short password", body: `{"email":"nope","password":"x"}`, status: http.StatusBadRequest, fields: []string{"email", "password"}},
		{name: "valid", body: `{"email":"a@b.co","password":"secret1"}`, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			if len(tt.fields) == 0 {
				return
			}
			var out ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			details, _ := out.Error.Details.(map[string]any)
			for _, f := range tt.fields {
				if _, ok := details[f]; !ok {
					t.Fatalf("missing field error %q in %v", f, details)
				}
			}
		})
	}
}
