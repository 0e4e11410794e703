package response

import "github.com/gin-gonic/gin"

// RespondError writes a {"detail": ...} body
func RespondError(c *gin.Context, code int, detail string, errors interface{}) {
	c.JSON(code, ErrorResponse{
		Detail: detail,
		Errors: errors,
	})
}

// AbortWithError writes the error body and stops the handler chain
func AbortWithError(c *gin.Context, code int, detail string, errors interface{}) {
	RespondError(c, code, detail, errors)
	c.Abort()
}
