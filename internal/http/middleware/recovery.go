package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
	"github.com/francescogabrieli/budget-sociale/internal/logger"
)

// Recovery перехватывает panic в хэндлерах, пишет стек в лог
// и отвечает клиенту общей ошибкой в формате API.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(logrus.Fields{
					"panic":      r,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"request_id": c.GetString(ContextRequestIDKey),
					"stack":      string(debug.Stack()),
				}).Error("panic при обработке запроса")

				if !c.Writer.Written() {
					response.Error(c, errPanic)
				} else {
					c.Abort()
				}
			}
		}()
		c.Next()
	}
}
