package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

// paramID parses a positive numeric path parameter, aborting the request when invalid.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Abort(c, utils.CodeValidation, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body into dst, aborting with a validation error on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.Abort(c, utils.CodeValidation, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

func queryUint(c *gin.Context, name string) *uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || v == 0 {
		return nil
	}
	id := uint(v)
	return &id
}
