package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    ErrorCode   `json:"code,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Error:   err.Error(),
	})
}

// RespondAppError writes err with the status of its code. Errors that are not
// AppErrors are logged and reported as a generic internal error.
func RespondAppError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code == CodeInternal {
		ErrorLogger.WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).WithError(err).Error("request failed")
		appErr = NewAppError(CodeInternal, "Internal server error")
	}
	c.AbortWithStatusJSON(appErr.Code.HTTPStatus(), JSONResponse{
		Status:  false,
		Message: appErr.Message,
		Error:   appErr.Message,
		Code:    appErr.Code,
	})
}

// Abort ends the request with a status and a plain message.
func Abort(c *gin.Context, code ErrorCode, message string) {
	c.AbortWithStatusJSON(code.HTTPStatus(), JSONResponse{
		Status:  false,
		Message: message,
		Error:   message,
		Code:    code,
	})
}

// NotFound is the handler for unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, JSONResponse{Status: false, Message: "route not found", Error: "route not found", Code: CodeNotFound})
}
