package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/edubooks-storefront/internal/errors"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
)

// parseIDParam reads a positive integer path parameter, answering 400 otherwise.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid id parameter", map[string]interface{}{
			"param": name,
			"value": c.Param(name),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, i18n.T(middleware.GetLanguage(c), i18n.ErrorUnexpected))
		return 0, false
	}
	return uint(id), true
}

func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// bindJSON binds the request body, answering 400 on failure.
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, i18n.T(middleware.GetLanguage(c), i18n.AuthFillRequired))
		return false
	}
	return true
}

// respondError maps err to a response in the session language.
func respondError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)
	info := apperrors.ParseError(err, middleware.GetLanguage(c))
	if info.Status >= http.StatusInternalServerError {
		log.Error("Request failed", err)
	} else {
		log.Debug("Request refused", map[string]interface{}{
			"code":  info.Code,
			"error": err.Error(),
		})
	}
	apperrors.RespondWithError(c, info.Status, info.Code, info.Message)
}
