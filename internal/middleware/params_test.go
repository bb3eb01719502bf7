package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequireUUIDParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/organizations/:id/members/:user_id", RequireUUIDParams("id", "user_id"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{
			name:     "valid",
			path:     "/organizations/" + uuid.NewString() + "/members/" + uuid.NewString(),
			wantCode: http.StatusNoContent,
		},
		{
			name:     "invalid organization",
			path:     "/organizations/abc/members/" + uuid.NewString(),
			wantCode: http.StatusBadRequest,
			wantBody: "Invalid id",
		},
		{
			name:     "invalid user",
			path:     "/organizations/" + uuid.NewString() + "/members/abc",
			wantCode: http.StatusBadRequest,
			wantBody: "Invalid user_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
				assert.Contains(t, w.Body.String(), "INVALID_FORMAT")
			}
		})
	}
}
