package controller

import (
	"github.com/gin-gonic/gin"

	"imghost/errs"
	"imghost/models"
)

// errorJSON writes the uniform API failure body {success:false, error}.
func errorJSON(c *gin.Context, err error) {
	c.JSON(errs.HTTPStatus(errs.KindOf(err)), models.ErrorResponse{
		Success: false,
		Error:   errs.MessageOf(err),
	})
}

// errorText is errorJSON for endpoints that answer in plain text.
func errorText(c *gin.Context, err error) {
	c.String(errs.HTTPStatus(errs.KindOf(err)), errs.MessageOf(err))
}

func NoRoute(c *gin.Context) {
	errorJSON(c, errs.New(errs.NotFound, "Not found"))
}

func NoMethod(c *gin.Context) {
	errorJSON(c, errs.New(errs.MethodNotAllowed, "Method not allowed"))
}
