package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

// ReceiptLogger records receipt issuing and downloads per order.
func ReceiptLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := logrus.Fields{
			"order_id":   c.Param("id"),
			"user_id":    c.GetUint(ContextUserID),
			"status":     c.Writer.Status(),
			"request_id": c.GetString(ContextRequestID),
		}
		if c.Writer.Status() < 300 {
			utils.InfoLogger.WithFields(fields).Info("receipt served")
		} else {
			utils.ErrorLogger.WithFields(fields).Warn("receipt request failed")
		}
	}
}
