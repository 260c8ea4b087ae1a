package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Murari17/Clipverse-video/pkg/utils"

	"github.com/gin-gonic/gin"
)

func newAuthTestRouter(tokens *utils.TokenMaker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(tokens), func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	tokens := utils.NewTokenMaker("test-secret-at-least-16-chars!!", "clipverse-test", time.Hour)
	expired := utils.NewTokenMaker("test-secret-at-least-16-chars!!", "clipverse-test", -time.Minute)
	r := newAuthTestRouter(tokens)

	validToken, err := tokens.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	expiredToken, err := expired.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid bearer token", "Bearer " + validToken, http.StatusOK},
		{"lowercase scheme", "bearer " + validToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"no scheme", validToken, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + validToken, http.StatusUnauthorized},
		{"garbage token", "Bearer this.is.garbage", http.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestGetCurrentUserIDMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetCurrentUserID(c); ok {
		t.Error("GetCurrentUserID() = true on empty context, want false")
	}
}
