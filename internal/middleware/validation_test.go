package middleware

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/models/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleForm struct {
	Title string `form:"title"`
}

func formRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/form", LimitBody(limit), func(c *gin.Context) {
		var form titleForm
		if !BindForm(c, &form) {
			return
		}
		c.String(http.StatusOK, form.Title)
	})
	return router
}

func multipartTitle(t *testing.T, title string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/form", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestBindFormWithinLimit(t *testing.T) {
	w := httptest.NewRecorder()
	formRouter(1<<10).ServeHTTP(w, multipartTitle(t, "Intro"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Intro", w.Body.String())
}

func TestBindFormOverLimitIs413(t *testing.T) {
	w := httptest.NewRecorder()
	formRouter(256).ServeHTTP(w, multipartTitle(t, strings.Repeat("x", 4<<10)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodePayloadTooLarge, resp.Error.Code)
}
