package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
)

type SessionController struct {
	session service.SessionService
}

func NewSessionController(session service.SessionService) *SessionController {
	return &SessionController{session: session}
}

type LanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func (ctrl *SessionController) state(c *gin.Context) gin.H {
	ctx := c.Request.Context()
	lang := ctrl.session.Language(ctx)
	return gin.H{
		"logged_in": ctrl.session.IsLoggedIn(ctx),
		"user":      ctrl.session.User(ctx),
		"language":  lang,
		"direction": i18n.Direction(lang),
		"theme":     ctrl.session.Theme(ctx),
	}
}

// GetSession returns the persisted client state
// GET /api/v1/session
func (ctrl *SessionController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.state(c))
}

// SetLanguage stores the negotiated language; listeners re-fetch in the background
// PUT /api/v1/session/language
func (ctrl *SessionController) SetLanguage(c *gin.Context) {
	var req LanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := ctrl.session.SetLanguage(c.Request.Context(), req.Language); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.state(c))
}

// SetTheme stores light or dark
// PUT /api/v1/session/theme
func (ctrl *SessionController) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := ctrl.session.SetTheme(c.Request.Context(), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.state(c))
}

// GetLoader reports whether the intro loader is due; it is shown once per session
// GET /api/v1/session/loader
func (ctrl *SessionController) GetLoader(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"show": ctrl.session.ShouldShowLoader(c.Request.Context()),
	})
}
