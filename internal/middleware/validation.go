package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/models/dto"
)

// MaxUploadSize bounds multipart request bodies.
const MaxUploadSize = 32 << 20

// BindJSON decodes the request body into obj. On failure it writes a 400
// response and returns false. Field rules are checked later by the
// services, so gin's own binding validation is not used here.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		message := "Invalid request format"
		if errors.Is(err, io.EOF) {
			message = "Request body is required"
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, message).WithDetails(err.Error())
		abortWithError(c, http.StatusBadRequest, detail)
		return false
	}
	return true
}

// BindForm decodes a multipart or urlencoded form into obj. A body cut off
// by LimitBody is answered with 413.
func BindForm(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		if AbortIfTooLarge(c, err) {
			return false
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid form data").WithDetails(err.Error())
		abortWithError(c, http.StatusBadRequest, detail)
		return false
	}
	return true
}

// AbortIfTooLarge writes a 413 response when err comes from a body that
// exceeded LimitBody, and reports whether it did.
func AbortIfTooLarge(c *gin.Context, err error) bool {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return false
	}
	detail := dto.NewErrorDetail(dto.ErrorCodePayloadTooLarge,
		fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
	abortWithError(c, http.StatusRequestEntityTooLarge, detail)
	return true
}

// LimitBody caps the request body so large uploads fail early.
func LimitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
