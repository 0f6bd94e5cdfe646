package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorLogger logs request failures and recovers from panics. In prod
// the caller gets a bare 500; panic details stay in the log.
func ErrorLogger(prod bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(c, start, "panic", err.Error(), debug.Stack())

				body := gin.H{
					"success": false,
					"code":    "INTERNAL_ERROR",
					"message": "Internal server error",
				}
				if !prod {
					body["errors"] = err.Error()
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
				return
			}

			if c.Writer.Status() >= http.StatusInternalServerError {
				logRequestError(c, start, "http_error", fmt.Sprintf("status=%d", c.Writer.Status()), nil)
			}
		}()

		c.Next()
	}
}

func logRequestError(c *gin.Context, start time.Time, errType string, message string, stack []byte) {
	var adminID int64
	if identity, ok := IdentityFrom(c); ok {
		adminID = identity.AdminID
	}
	log.Printf(
		"request_error type=%s status=%d method=%s path=%s client_ip=%s admin_id=%d latency=%s error=%q stack=%s",
		errType,
		c.Writer.Status(),
		c.Request.Method,
		c.Request.URL.Path,
		c.ClientIP(),
		adminID,
		time.Since(start),
		message,
		string(stack),
	)
}
