package middleware

import (
	"mime"
	"net/http"

	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// BodyLimit guards write requests. A declared length above maxBytes is
// refused with 413 before the handler runs, a body that is not JSON with 415.
// Undeclared lengths are capped by http.MaxBytesReader so binding fails once
// the limit is crossed.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		if req.Body == nil || req.ContentLength == 0 {
			c.Next()
			return
		}
		if req.ContentLength > maxBytes {
			response.Error(c, apperror.New(apperror.CodeValidation, "Request body too large", http.StatusRequestEntityTooLarge).
				WithDetail("max_bytes", maxBytes))
			c.Abort()
			return
		}
		if req.Method == http.MethodPost || req.Method == http.MethodPut {
			mt, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
			if err != nil || mt != "application/json" {
				response.Error(c, apperror.New(apperror.CodeValidation, "Content-Type must be application/json", http.StatusUnsupportedMediaType))
				c.Abort()
				return
			}
		}
		req.Body = http.MaxBytesReader(c.Writer, req.Body, maxBytes)
		c.Next()
	}
}
