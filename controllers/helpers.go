package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/devleo10/dishly/middlewares"
	"github.com/devleo10/dishly/services"
	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
)

var errInternal = errors.New("Internal server error")

var kindStatus = map[services.ErrorKind]int{
	services.KindValidation:   http.StatusBadRequest,
	services.KindUnauthorized: http.StatusUnauthorized,
	services.KindForbidden:    http.StatusForbidden,
	services.KindNotFound:     http.StatusNotFound,
	services.KindConflict:     http.StatusConflict,
}

// respondServiceError maps a service error to its HTTP status. Anything
// unexpected is logged and hidden behind a generic 500.
func respondServiceError(c *gin.Context, err error) {
	if status, ok := kindStatus[services.KindOf(err)]; ok {
		utils.RespondError(c, status, err)
		return
	}

	requestID, _ := c.Get("request_id")
	utils.ErrorLogger.WithError(err).
		WithField("path", c.FullPath()).
		WithField("request_id", requestID).
		Error("request failed")
	_ = c.Error(err)
	utils.RespondError(c, http.StatusInternalServerError, errInternal)
}

// parseID reads a positive numeric path parameter. label names the resource
// in the error, e.g. "order" gives "Invalid order ID".
func parseID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid "+label+" ID"))
		return 0, false
	}
	return uint(id), true
}

func currentActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("Unauthorized"))
	}
	return actor, ok
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid request body"))
		return false
	}
	return true
}
