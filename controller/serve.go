package controller

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"imghost/errs"
	"imghost/models"
)

const (
	browserCacheControl = "public, max-age=31536000, immutable"
	cdnCacheControl     = "public, max-age=31536000"
)

// Serve streams an image by id without authentication: knowing the id is the capability.
// Failures are answered in plain text.
func (ic *ImagesController) Serve(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		errorText(c, errs.New(errs.InvalidInput, "Image ID is required"))
		return
	}

	ctx := c.Request.Context()

	record, err := ic.images.Get(ctx, id)
	if err != nil {
		errorText(c, err)
		return
	}

	obj, err := ic.images.Fetch(ctx, record)
	if err != nil {
		errorText(c, err)
		return
	}
	defer obj.Body.Close()

	// Cache headers only go on responses for an image that exists.
	etag := `"` + record.ID + `"`
	setCacheHeaders(c, record, etag)

	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}

	contentType := record.ContentType
	if contentType == "" {
		contentType = obj.ContentType
	}
	size := obj.Size
	if size < 0 {
		size = record.Size
	}

	c.Header("Content-Disposition", contentDisposition(record.OriginalFilename))

	if c.Request.Method == http.MethodHead {
		c.Header("Content-Type", contentType)
		c.Header("Content-Length", strconv.FormatInt(size, 10))
		c.Status(http.StatusOK)
		return
	}

	c.DataFromReader(http.StatusOK, size, contentType, obj.Body, nil)
}

func setCacheHeaders(c *gin.Context, record *models.ImageMetadata, etag string) {
	c.Header("Cache-Control", browserCacheControl)
	c.Header("CDN-Cache-Control", cdnCacheControl)
	c.Header("ETag", etag)
	c.Header("Last-Modified", record.UploadTime.UTC().Format(http.TimeFormat))
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("inline", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "inline"
}
