package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"imghost/errs"
	"imghost/logger"
	"imghost/models"
	"imghost/service"
)

// multipartOverhead is the room left for multipart framing above the file size limit.
const multipartOverhead = 1 << 20

type ImagesController struct {
	images *service.Images
	l      logger.Interface
}

func NewImagesController(images *service.Images, l logger.Interface) *ImagesController {
	return &ImagesController{images: images, l: l}
}

func (ic *ImagesController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ic.images.MaxSize()+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorJSON(c, ic.formError(err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ic.l.Error(err, "controller - Upload - fileHeader.Open")
		errorJSON(c, errs.Wrap(errs.Internal, "Failed to read uploaded file", err))
		return
	}
	defer file.Close()

	record, err := ic.images.Upload(c.Request.Context(), service.UploadInput{
		Body:        file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	})
	if err != nil {
		errorJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{Success: true, Image: record})
}

func (ic *ImagesController) formError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return errs.Wrap(errs.PayloadTooLarge,
			fmt.Sprintf("File size exceeds %s limit", humanize.IBytes(uint64(ic.images.MaxSize()))), err)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return errs.Wrap(errs.InvalidInput, "No file provided", err)
	}
	return errs.Wrap(errs.InvalidInput, "Invalid multipart form", err)
}

func (ic *ImagesController) List(c *gin.Context) {
	records, err := ic.images.List(c.Request.Context())
	if err != nil {
		errorJSON(c, err)
		return
	}
	if records == nil {
		records = []models.ImageMetadata{}
	}

	c.JSON(http.StatusOK, models.ImageListResponse{Images: records, Total: len(records)})
}

func (ic *ImagesController) Detail(c *gin.Context) {
	record, err := ic.images.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (ic *ImagesController) Delete(c *gin.Context) {
	if err := ic.images.Delete(c.Request.Context(), c.Param("id")); err != nil {
		errorJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse{Success: true, Message: "Image deleted successfully"})
}
