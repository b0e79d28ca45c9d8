package controller

import (
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	apperrors "github.com/ikkim/edubooks-storefront/internal/errors"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
)

// maxProfileImageSize caps the uploaded profile picture.
const maxProfileImageSize = 5 << 20

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type VerifyCodeRequest struct {
	Phone string             `json:"phone"`
	Code  string             `json:"code" binding:"required"`
	Flow  service.VerifyFlow `json:"flow"`
}

type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		log.Warn("Login failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Register handles the sign-up form
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// VerifyCode checks the OTP of the register or forgot-password flow
// POST /api/v1/auth/verify-code
func (ctrl *AuthController) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Flow == "" {
		req.Flow = service.FlowRegister
	}

	result, err := ctrl.authService.VerifyCode(c.Request.Context(), req.Phone, req.Code, req.Flow)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SendCode starts forgot-password or resends a code
// POST /api/v1/auth/send-code
func (ctrl *AuthController) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.authService.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCooldown reports the resend window
// GET /api/v1/auth/cooldown
func (ctrl *AuthController) GetCooldown(c *gin.Context) {
	cooldown := ctrl.authService.Cooldown()
	c.JSON(http.StatusOK, gin.H{
		"can_resend":        cooldown.CanResend(),
		"remaining_seconds": int(math.Ceil(cooldown.Remaining().Seconds())),
	})
}

// ResetPassword sets a new password at the end of forgot-password
// POST /api/v1/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.authService.ResetPassword(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProfile returns the signed-in user
// GET /api/v1/auth/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctrl.authService.Profile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

func formUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.PostForm(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// UpdateProfile accepts a multipart form with an optional image file
// POST /api/v1/auth/profile
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	lang := middleware.GetLanguage(c)

	update := model.ProfileUpdate{
		Name:        c.PostForm("name"),
		Phone:       c.PostForm("phone"),
		ParentPhone: c.PostForm("parent_phone"),
		GradeID:     formUint(c, "grade_id"),
		SectionID:   formUint(c, "section_id"),
		CityID:      formUint(c, "city_id"),
	}

	if header, err := c.FormFile("image"); err == nil {
		if header.Size > maxProfileImageSize {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, i18n.T(lang, i18n.ProfileUpdateFailed))
			return
		}
		file, err := header.Open()
		if err != nil {
			log.Error("Failed to open uploaded image", err)
			apperrors.InternalError(c, i18n.T(lang, i18n.ErrorUnexpected))
			return
		}
		defer file.Close()

		contents, err := io.ReadAll(file)
		if err != nil {
			log.Error("Failed to read uploaded image", err)
			apperrors.InternalError(c, i18n.T(lang, i18n.ErrorUnexpected))
			return
		}
		update.ImageName = header.Filename
		update.ImageContents = contents
	}

	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// ChangePassword changes the password of the signed-in user
// PUT /api/v1/auth/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.authService.ChangePassword(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.GetLanguage(c), i18n.ProfilePasswordChanged),
	})
}

// Logout clears the stored login once the server accepts it
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.authService.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.GetLanguage(c), i18n.ProfileLoggedOut),
	})
}
