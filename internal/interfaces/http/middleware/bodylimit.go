package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes, or at maxUploadBytes for
// multipart requests carrying documents
func BodyLimit(maxBytes, maxUploadBytes int64) gin.HandlerFunc {
	if maxUploadBytes < maxBytes {
		maxUploadBytes = maxBytes
	}
	return func(c *gin.Context) {
		limit := maxBytes
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = maxUploadBytes
		}

		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		// Chunked bodies have no Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
