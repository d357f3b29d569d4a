package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ita-disc-inventory/backend/services"
	"github.com/ita-disc-inventory/backend/utils"
)

var ErrNoPermission = errors.New("you do not have permission to perform this action")

// respondServiceError maps workflow failures onto the response contract:
// business-rule violations are 400, anything else 500.
func respondServiceError(c *gin.Context, err error) {
	if services.IsBusinessError(err) {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	utils.RespondError(c, http.StatusInternalServerError, err)
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}
