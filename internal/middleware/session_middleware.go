package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/errors"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
)

const LanguageKey = "lang"

// SessionMiddleware exposes the stored session to handlers. The gateway
// serves one session, so there is no per-request identity.
type SessionMiddleware struct {
	session service.SessionService
}

func NewSessionMiddleware(session service.SessionService) *SessionMiddleware {
	return &SessionMiddleware{session: session}
}

// Language puts the stored language in the context and sets
// Content-Language on the response.
func (m *SessionMiddleware) Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := m.session.Language(c.Request.Context())
		c.Set(LanguageKey, lang)
		c.Writer.Header().Set("Content-Language", lang)
		c.Next()
	}
}

// RequireLogin aborts with 401 when no token is stored.
func (m *SessionMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.session.IsLoggedIn(c.Request.Context()) {
			c.Next()
			return
		}

		GetLoggerFromContext(c).Warn("Login required", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		errors.Unauthorized(c, i18n.T(GetLanguage(c), i18n.ProfilePleaseLogin))
		c.Abort()
	}
}

// GetLanguage returns the language set by Language, English otherwise.
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(LanguageKey); lang != "" {
		return lang
	}
	return i18n.English
}
