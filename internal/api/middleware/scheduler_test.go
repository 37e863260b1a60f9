package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func schedulerTestRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/process", NewSchedulerGuard(secret).Verify(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	return router
}

func TestSchedulerGuard_Verify(t *testing.T) {
	router := schedulerTestRouter("s3cret")

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"no credentials", nil, http.StatusUnauthorized},
		{"correct bearer secret", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusOK},
		{"wrong bearer secret", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"malformed authorization header", map[string]string{"Authorization": "s3cret"}, http.StatusUnauthorized},
		{"platform scheduler header", map[string]string{HeaderSchedulerTrigger: "1"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/process", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSchedulerGuard_EmptySecretNeverMatchesBearer(t *testing.T) {
	router := schedulerTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/process", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
