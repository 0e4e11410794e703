package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_OmitsEmptyErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, http.StatusNotFound, "Activity not found", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Activity not found"}`, w.Body.String())
}

func TestAbortWithError_StopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	reached := false
	engine.Use(func(c *gin.Context) {
		AbortWithError(c, http.StatusTooManyRequests, "Rate limit exceeded", map[string]int{"limit": 2})
	})
	engine.GET("/", func(c *gin.Context) { reached = true })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, reached)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"detail":"Rate limit exceeded","errors":{"limit":2}}`, w.Body.String())
}
