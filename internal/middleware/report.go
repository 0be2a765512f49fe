package middleware

import (
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ReportErrors sends errors attached with c.Error to Sentry when the
// response status is 400 or above. It is a no-op when Sentry is not
// initialised.
func ReportErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest || len(c.Errors) == 0 {
			return
		}

		hub := sentrygin.GetHubFromContext(c)
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}

		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("route", c.FullPath())
			scope.SetTag("method", c.Request.Method)
			scope.SetTag("status", strconv.Itoa(status))
			if userID, ok := GetUserID(c); ok {
				scope.SetUser(sentry.User{ID: userID})
			}
			for _, e := range c.Errors {
				hub.CaptureException(e.Err)
			}
		})
	}
}
