package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	pkgerrors "users-rest-api/pkg/errors"
)

const rawBodyKey = "raw_body"

// BodyParser caps request bodies at maxBytes and eagerly parses JSON and
// URL-encoded payloads, so malformed input is rejected before any handler.
// JSON bodies stay readable for binding; form values land in Request.PostForm.
func BodyParser(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		switch c.ContentType() {
		case binding.MIMEJSON:
			data, err := io.ReadAll(c.Request.Body)
			if err != nil {
				abortBody(c, err)
				return
			}
			if len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
				abortBody(c, pkgerrors.New(http.StatusBadRequest, "invalid JSON body"))
				return
			}
			c.Set(rawBodyKey, data)
			c.Request.Body = io.NopCloser(bytes.NewReader(data))

		case binding.MIMEPOSTForm:
			if err := c.Request.ParseForm(); err != nil {
				abortBody(c, err)
				return
			}
		}

		c.Next()
	}
}

// RawBody returns the JSON body read by BodyParser.
func RawBody(c *gin.Context) []byte {
	if v, ok := c.Get(rawBodyKey); ok {
		if data, ok := v.([]byte); ok {
			return data
		}
	}
	return nil
}

func abortBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		err = pkgerrors.Wrap(http.StatusRequestEntityTooLarge, "request entity too large", err)
	default:
		var sc pkgerrors.StatusCoder
		if !errors.As(err, &sc) {
			err = pkgerrors.Wrap(http.StatusBadRequest, "invalid request body", err)
		}
	}
	_ = c.Error(err)
	c.Abort()
}
