package response

import "github.com/gin-gonic/gin"

// All endpoints share the {success, message, data|errors} envelope.

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"message": message,
		"errors":  details,
	})
}

// CustomError aborts the request with an error envelope. Used by
// middleware where the chain must stop.
func CustomError(c *gin.Context, statusCode int, code string, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}
