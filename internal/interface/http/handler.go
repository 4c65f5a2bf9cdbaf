package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
	"github.com/oksasatya/portofolio/pkg/response"
	"github.com/oksasatya/portofolio/pkg/validation"
)

// guard returns the id of the signed-in owner. Without a session it answers
// 401 and the handler must stop.
func guard(c *gin.Context) (string, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, application.ErrForbiddenOwner.Error(), nil)
		return "", false
	}
	return sess.UserID, true
}

// bind decodes the JSON body into dst, answering 400 with field details on
// failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// fail maps a service error onto the response envelope. ent names the
// entity in user-facing messages, op the attempted operation.
func fail(c *gin.Context, logger *logrus.Logger, err error, op, ent string) {
	var verr *application.ValidationError
	switch {
	case errors.Is(err, application.ErrForbiddenOwner):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, ent+" not found", nil)
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{verr.Field: verr.Message})
	case errors.Is(err, application.ErrInvalidFolder), errors.Is(err, application.ErrUnsupportedFile):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrFileTooLarge):
		response.Error[any](c, http.StatusRequestEntityTooLarge, err.Error(), nil)
	case errors.Is(err, application.ErrSiteOwnerUnset):
		response.Error[any](c, http.StatusServiceUnavailable, "site is not set up yet", nil)
	default:
		if logger == nil {
			logger = logrus.StandardLogger()
		}
		logger.WithError(err).WithFields(logrus.Fields{
			"op":     op,
			"entity": ent,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		response.Error[any](c, http.StatusInternalServerError, application.OpMessage(op, ent), nil)
	}
}
