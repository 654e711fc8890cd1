package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request and converts panics into a JSON 500.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				log.Printf("level=error msg=panic method=%s path=%s err=%v", c.Request.Method, c.Request.URL.Path, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal server error",
					},
				})
				c.Abort()
				return
			}

			status := c.Writer.Status()
			level := "info"
			if status >= http.StatusInternalServerError {
				level = "error"
			}
			log.Printf(
				"level=%s msg=request method=%s path=%s status=%d client_ip=%s user_id=%d latency=%s",
				level,
				c.Request.Method,
				c.Request.URL.Path,
				status,
				c.ClientIP(),
				c.GetInt64("user_id"),
				time.Since(start),
			)
		}()

		c.Next()
	}
}
